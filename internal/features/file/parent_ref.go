package file

import (
	"encoding/json"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RootSentinel is how a root-level parentId is stored. JSON renders it as the number 0.
const RootSentinel = "0"

// ParentRef is either the root sentinel or the id of a folder. The zero value is root.
type ParentRef struct {
	id primitive.ObjectID
}

// Root is the parent of top-level entries.
var Root = ParentRef{}

func ParentFolder(id primitive.ObjectID) ParentRef {
	return ParentRef{id: id}
}

// ParseParentRef accepts "", "0" or a hex ObjectID.
func ParseParentRef(s string) (ParentRef, error) {
	if s == "" || s == RootSentinel {
		return Root, nil
	}
	id, err := primitive.ObjectIDFromHex(s)
	if err != nil || id.IsZero() {
		return Root, fmt.Errorf("%w: %q", ErrMalformedID, s)
	}
	return ParentRef{id: id}, nil
}

func (p ParentRef) IsRoot() bool {
	return p.id.IsZero()
}

func (p ParentRef) FolderID() primitive.ObjectID {
	return p.id
}

func (p ParentRef) String() string {
	if p.IsRoot() {
		return RootSentinel
	}
	return p.id.Hex()
}

func (p ParentRef) MarshalJSON() ([]byte, error) {
	if p.IsRoot() {
		return []byte("0"), nil
	}
	return json.Marshal(p.id.Hex())
}

func (p ParentRef) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if p.IsRoot() {
		return bson.MarshalValue(RootSentinel)
	}
	return bson.MarshalValue(p.id)
}

// UnmarshalBSONValue also accepts integer 0, which older records used for root.
func (p *ParentRef) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.ObjectID:
		*p = ParentRef{id: raw.ObjectID()}
	case bsontype.String:
		ref, err := ParseParentRef(raw.StringValue())
		if err != nil {
			return err
		}
		*p = ref
	case bsontype.Int32:
		if raw.Int32() != 0 {
			return fmt.Errorf("%w: %d", ErrMalformedID, raw.Int32())
		}
		*p = Root
	case bsontype.Int64:
		if raw.Int64() != 0 {
			return fmt.Errorf("%w: %d", ErrMalformedID, raw.Int64())
		}
		*p = Root
	case bsontype.Null, bsontype.Undefined:
		*p = Root
	default:
		return fmt.Errorf("parentId: unexpected bson type %s", t)
	}
	return nil
}
