package file

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestParseParentRef(t *testing.T) {
	folder := primitive.NewObjectID()

	tests := []struct {
		in      string
		want    ParentRef
		wantErr bool
	}{
		{in: "", want: Root},
		{in: "0", want: Root},
		{in: folder.Hex(), want: ParentFolder(folder)},
		{in: "F1", wantErr: true},
		{in: "000000000000000000000000", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseParentRef(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformedID)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParentRef_JSON(t *testing.T) {
	folder := primitive.NewObjectID()

	out, err := json.Marshal(map[string]ParentRef{"root": Root, "nested": ParentFolder(folder)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"root":0,"nested":"`+folder.Hex()+`"}`, string(out))
}

func TestParentRef_BSON(t *testing.T) {
	folder := primitive.NewObjectID()

	raw, err := bson.Marshal(File{Name: "a", Type: TypeFile, ParentID: Root})
	require.NoError(t, err)
	v := bson.Raw(raw).Lookup("parentId")
	assert.Equal(t, bsontype.String, v.Type)
	assert.Equal(t, RootSentinel, v.StringValue())

	raw, err = bson.Marshal(File{Name: "b", Type: TypeFile, ParentID: ParentFolder(folder)})
	require.NoError(t, err)
	v = bson.Raw(raw).Lookup("parentId")
	assert.Equal(t, bsontype.ObjectID, v.Type)

	var decoded File
	require.NoError(t, bson.Unmarshal(raw, &decoded))
	assert.Equal(t, folder, decoded.ParentID.FolderID())
}

func TestParentRef_BSONLegacyIntegerRoot(t *testing.T) {
	raw, err := bson.Marshal(bson.M{"name": "old", "type": "folder", "parentId": int32(0)})
	require.NoError(t, err)

	var decoded File
	require.NoError(t, bson.Unmarshal(raw, &decoded))
	assert.True(t, decoded.ParentID.IsRoot())
}

func TestFile_JSONHidesLocalPath(t *testing.T) {
	f := File{
		ID:        primitive.NewObjectID(),
		UserID:    primitive.NewObjectID(),
		Name:      "doc.txt",
		Type:      TypeFile,
		ParentID:  Root,
		LocalPath: "/tmp/files_manager/secret",
	}
	out, err := json.Marshal(f)
	require.NoError(t, err)

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &fields))
	assert.NotContains(t, fields, "localPath")
	assert.Equal(t, 0.0, fields["parentId"])
	assert.Equal(t, false, fields["isPublic"])
	assert.Equal(t, f.UserID.Hex(), fields["userId"])
}
