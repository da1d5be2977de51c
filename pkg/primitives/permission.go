package primitives

import (
	"github.com/Layr-Labs/eosio-keys-go/pkg/name"
)

// PermissionLevel is an actor@permission authorization pair
type PermissionLevel struct {
	Actor      name.Name `json:"actor"`
	Permission name.Name `json:"permission"`
}

// NewPermissionLevel parses both names. Name errors are returned unchanged.
func NewPermissionLevel(actor, permission string) (PermissionLevel, error) {
	a, err := name.Parse(actor)
	if err != nil {
		return PermissionLevel{}, err
	}
	p, err := name.Parse(permission)
	if err != nil {
		return PermissionLevel{}, err
	}
	return PermissionLevel{Actor: a, Permission: p}, nil
}

func (p PermissionLevel) String() string {
	return p.Actor.String() + "@" + p.Permission.String()
}

func (p PermissionLevel) EncodedSize() int {
	return p.Actor.EncodedSize() + p.Permission.EncodedSize()
}

func (p PermissionLevel) EncodeInto(buf []byte, pos int) (int, error) {
	next, err := p.Actor.EncodeInto(buf, pos)
	if err != nil {
		return pos, err
	}
	return p.Permission.EncodeInto(buf, next)
}

func (p *PermissionLevel) DecodeFrom(buf []byte, pos int) (int, error) {
	var out PermissionLevel
	next, err := out.Actor.DecodeFrom(buf, pos)
	if err != nil {
		return pos, err
	}
	if next, err = out.Permission.DecodeFrom(buf, next); err != nil {
		return pos, err
	}
	*p = out
	return next, nil
}
