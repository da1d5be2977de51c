package primitives

import (
	"github.com/Layr-Labs/eosio-keys-go/pkg/codec"
	"github.com/Layr-Labs/eosio-keys-go/pkg/name"
)

// Action is a contract call: the target account, the action name, the
// authorizations it carries and the packed payload. The payload is opaque here.
type Action struct {
	Account       name.Name         `json:"account"`
	Name          name.Name         `json:"name"`
	Authorization []PermissionLevel `json:"authorization"`
	Data          []byte            `json:"data"`
}

// ActionData is a typed payload that knows which action it belongs to
type ActionData interface {
	codec.Encodable
	ActionName() name.Name
}

func NewAction(account, actionName name.Name, authorization []PermissionLevel, data []byte) *Action {
	return &Action{
		Account:       account,
		Name:          actionName,
		Authorization: authorization,
		Data:          data,
	}
}

// NewActionFromStrings parses account and action names and packs payload as the action data
func NewActionFromStrings(account, actionName string, authorization []PermissionLevel, payload codec.Encodable) (*Action, error) {
	acct, err := name.Parse(account)
	if err != nil {
		return nil, err
	}
	act, err := name.Parse(actionName)
	if err != nil {
		return nil, err
	}
	data, err := codec.Pack(payload)
	if err != nil {
		return nil, err
	}
	return NewAction(acct, act, authorization, data), nil
}

// ToAction packs data into an action addressed to account
func ToAction(account name.Name, authorization []PermissionLevel, data ActionData) (*Action, error) {
	packed, err := codec.Pack(data)
	if err != nil {
		return nil, err
	}
	return NewAction(account, data.ActionName(), authorization, packed), nil
}

// SerializeData returns the canonical encoding of the action
func (a *Action) SerializeData() ([]byte, error) {
	return codec.Pack(a)
}

// Digest is the SHA-256 of the canonical encoding
func (a *Action) Digest() (Checksum256, error) {
	data, err := a.SerializeData()
	if err != nil {
		return Checksum256{}, err
	}
	return Sha256Of(data), nil
}

func (a *Action) EncodedSize() int {
	return a.Account.EncodedSize() +
		a.Name.EncodedSize() +
		codec.VectorSize(a.Authorization) +
		codec.BytesSize(a.Data)
}

func (a *Action) EncodeInto(buf []byte, pos int) (int, error) {
	next, err := a.Account.EncodeInto(buf, pos)
	if err != nil {
		return pos, err
	}
	if next, err = a.Name.EncodeInto(buf, next); err != nil {
		return pos, err
	}
	if next, err = codec.WriteVector(buf, next, a.Authorization); err != nil {
		return pos, err
	}
	if next, err = codec.WriteBytes(buf, next, a.Data); err != nil {
		return pos, err
	}
	return next, nil
}

func (a *Action) DecodeFrom(buf []byte, pos int) (int, error) {
	var out Action
	next, err := out.Account.DecodeFrom(buf, pos)
	if err != nil {
		return pos, err
	}
	if next, err = out.Name.DecodeFrom(buf, next); err != nil {
		return pos, err
	}
	if out.Authorization, next, err = codec.ReadVector[PermissionLevel](buf, next); err != nil {
		return pos, err
	}
	if out.Data, next, err = codec.ReadBytes(buf, next); err != nil {
		return pos, err
	}
	*a = out
	return next, nil
}
