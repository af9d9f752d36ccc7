package services

import (
	"bytes"
	"context"
	"testing"

	"github.com/dmitrijs2005/qrtag/internal/client/client"
	"github.com/dmitrijs2005/qrtag/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagService_Delegates(t *testing.T) {
	q := &client.QRCode{Code: "A1", Status: client.StatusActive, ItemName: "Keys"}
	fc := &fakeClient{QRRet: q, QRList: []client.QRCode{*q}}
	var buf bytes.Buffer
	s := NewTagService(fc, logging.New(&buf, "info"))
	ctx := context.Background()

	got, err := s.Get(ctx, "A1")
	require.NoError(t, err)
	assert.Equal(t, q, got)

	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = s.Activate(ctx, "A1", client.ActivationRequest{ItemName: "Keys", OwnerName: "Alice"})
	require.NoError(t, err)
	assert.Equal(t, "Alice", fc.LastAct.OwnerName)

	name := "Wallet"
	_, err = s.Update(ctx, "A1", client.QRCodeUpdate{ItemName: &name})
	require.NoError(t, err)
	require.NotNil(t, fc.LastUpd.ItemName)
	assert.Equal(t, "Wallet", *fc.LastUpd.ItemName)

	require.NoError(t, s.Delete(ctx, "B2"))
	assert.Equal(t, "B2", fc.LastCode)

	out := buf.String()
	assert.Contains(t, out, "tag activated")
	assert.Contains(t, out, "tag updated")
	assert.Contains(t, out, "tag deleted")
}

func TestTagService_ErrorsKeepServerMessage(t *testing.T) {
	fc := &fakeClient{QRErr: &client.RequestFailedError{Kind: client.ApplicationFailure, Status: 404, Message: "QR code not found"}}
	s := NewTagService(fc, logging.Discard())
	ctx := context.Background()

	_, err := s.Get(ctx, "ZZ")
	require.Error(t, err)
	assert.ErrorIs(t, err, client.ErrRequestFailed)
	assert.Equal(t, "QR code not found", client.FailureMessage(err))

	_, err = s.List(ctx)
	assert.Error(t, err)
	_, err = s.Activate(ctx, "ZZ", client.ActivationRequest{})
	assert.Error(t, err)
	_, err = s.Update(ctx, "ZZ", client.QRCodeUpdate{})
	assert.Error(t, err)
	assert.Error(t, s.Delete(ctx, "ZZ"))
}
