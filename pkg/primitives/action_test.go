package primitives

import (
	"encoding/hex"
	"testing"

	"github.com/Layr-Labs/eosio-keys-go/pkg/asset"
	"github.com/Layr-Labs/eosio-keys-go/pkg/codec"
	"github.com/Layr-Labs/eosio-keys-go/pkg/name"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const transferActionHex = "00a6823403ea3055000000572d3ccdcd01000000000093b1ca00000000a8ed323227000000000093b1ca000000008093b1ca102700000000000004454f53000000000661206d656d6f"

func newTestTransferAction(t *testing.T) *Action {
	t.Helper()

	permission, err := NewPermissionLevel("testa", "active")
	require.NoError(t, err)
	transfer, err := NewActionTransferFromStrings("testa", "testb", "1.0000 EOS", "a memo")
	require.NoError(t, err)
	action, err := NewActionFromStrings("eosio.token", "transfer", []PermissionLevel{permission}, transfer)
	require.NoError(t, err)
	return action
}

func TestAction_SerializeTransfer(t *testing.T) {
	action := newTestTransferAction(t)

	data, err := action.SerializeData()
	require.NoError(t, err)
	assert.Equal(t, transferActionHex, hex.EncodeToString(data))
	assert.Equal(t, len(data), action.EncodedSize())
}

func TestAction_ToActionMatchesFromStrings(t *testing.T) {
	permission, err := NewPermissionLevel("testa", "active")
	require.NoError(t, err)
	transfer, err := NewActionTransferFromStrings("testa", "testb", "1.0000 EOS", "a memo")
	require.NoError(t, err)

	action, err := ToAction(name.MustParse("eosio.token"), []PermissionLevel{permission}, transfer)
	require.NoError(t, err)

	data, err := action.SerializeData()
	require.NoError(t, err)
	assert.Equal(t, transferActionHex, hex.EncodeToString(data))
}

func TestAction_Decode(t *testing.T) {
	raw, err := hex.DecodeString(transferActionHex)
	require.NoError(t, err)

	var action Action
	require.NoError(t, codec.Unpack(raw, &action))
	assert.Equal(t, "eosio.token", action.Account.String())
	assert.Equal(t, "transfer", action.Name.String())
	require.Len(t, action.Authorization, 1)
	assert.Equal(t, "testa@active", action.Authorization[0].String())

	var transfer ActionTransfer
	require.NoError(t, codec.Unpack(action.Data, &transfer))
	assert.Equal(t, "testa", transfer.From.String())
	assert.Equal(t, "testb", transfer.To.String())
	assert.Equal(t, "1.0000 EOS", transfer.Quantity.String())
	assert.Equal(t, "a memo", transfer.Memo)
}

func TestAction_DecodeTruncated(t *testing.T) {
	raw, err := hex.DecodeString(transferActionHex)
	require.NoError(t, err)

	var action Action
	_, err = action.DecodeFrom(raw[:len(raw)-1], 0)
	require.ErrorIs(t, err, codec.ErrOutOfBounds)
	assert.Nil(t, action.Authorization, "receiver untouched on failure")
}

func TestAction_EmptyAuthorizationAndData(t *testing.T) {
	action := NewAction(name.MustParse("eosio"), name.MustParse("noop"), nil, nil)

	data, err := action.SerializeData()
	require.NoError(t, err)
	require.Len(t, data, 18)
	assert.Equal(t, []byte{0x00, 0x00}, data[16:])
}

func TestAction_NameErrorsSurfaceUnchanged(t *testing.T) {
	permission, err := NewPermissionLevel("testa", "active")
	require.NoError(t, err)
	transfer := &ActionTransfer{Quantity: asset.Asset{}}

	_, err = NewActionFromStrings("Invalid.Account", "transfer", []PermissionLevel{permission}, transfer)
	require.ErrorIs(t, err, name.ErrInvalidName)

	_, err = NewActionFromStrings("eosio.token", "waytoolongactionname", nil, transfer)
	require.ErrorIs(t, err, name.ErrInvalidName)

	_, err = NewPermissionLevel("testa", "ACTIVE")
	require.ErrorIs(t, err, name.ErrInvalidName)

	_, err = NewActionTransferFromStrings("testa", "testb", "1.0000", "")
	require.ErrorIs(t, err, asset.ErrInvalidAsset)
}

func TestAction_Digest(t *testing.T) {
	action := newTestTransferAction(t)
	raw, err := hex.DecodeString(transferActionHex)
	require.NoError(t, err)

	digest, err := action.Digest()
	require.NoError(t, err)
	assert.Equal(t, Sha256Of(raw), digest)
}
