package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, gdb.AutoMigrate(&Message{}))
	return gdb
}

func TestPublishInTxWritesRow(t *testing.T) {
	ctx := context.Background()
	gdb := newTestDB(t)
	manager := NewManager(gdb)

	event := map[string]any{"order_number": "WB-0000000001", "total": "25.00"}
	require.NoError(t, manager.PublishInTx(ctx, nil, "order.created", "WB-0000000001", event))

	var messages []Message
	require.NoError(t, gdb.Find(&messages).Error)
	require.Len(t, messages, 1)
	assert.Equal(t, "order.created", messages[0].Topic)
	assert.Equal(t, "WB-0000000001", messages[0].Key)
	assert.False(t, messages[0].Published)
	assert.Nil(t, messages[0].PublishedAt)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(messages[0].Payload, &decoded))
	assert.Equal(t, "25.00", decoded["total"])
}

func TestPublishInTxRollsBackWithTransaction(t *testing.T) {
	ctx := context.Background()
	gdb := newTestDB(t)
	manager := NewManager(gdb)

	err := gdb.Transaction(func(tx *gorm.DB) error {
		if err := manager.PublishInTx(ctx, tx, "order.created", "WB-0000000002", "payload"); err != nil {
			return err
		}
		return errors.New("business write failed")
	})
	require.Error(t, err)

	var count int64
	require.NoError(t, gdb.Model(&Message{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestPublishInTxRejectsUnmarshalableEvent(t *testing.T) {
	ctx := context.Background()
	manager := NewManager(newTestDB(t))

	err := manager.PublishInTx(ctx, nil, "order.created", "k", make(chan int))
	assert.Error(t, err)
}
