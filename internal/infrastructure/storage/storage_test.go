package storage

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var samplePDF = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")

type fakeS3 struct {
	objects map[string][]byte
	types   map[string]string
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeS3) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	key := *params.Bucket + "/" + *params.Key
	f.objects[key] = data
	f.types[key] = *params.ContentType
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, params *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[*params.Bucket+"/"+*params.Key]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func TestUploader_LocalRoundTrip(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()
	up := NewUploader(NewLocalStore(fs, "/uploads"), 1024)

	stored, err := up.Upload(ctx, "0002Pat", bytes.NewReader(samplePDF))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stored.Ref, "local://0002Pat/"))
	assert.True(t, strings.HasSuffix(stored.Ref, ".pdf"))
	assert.Equal(t, "application/pdf", stored.ContentType)
	assert.EqualValues(t, len(samplePDF), stored.Size)

	data, contentType, err := up.Read(ctx, "0002Pat", stored.Ref)
	require.NoError(t, err)
	assert.Equal(t, samplePDF, data)
	assert.Equal(t, "application/pdf", contentType)

	exists, err := afero.Exists(fs, "/uploads/"+strings.TrimPrefix(stored.Ref, "local://"))
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestUploader_TextIsAllowed(t *testing.T) {
	up := NewUploader(NewLocalStore(afero.NewMemMapFs(), "/uploads"), 1024)

	stored, err := up.Upload(context.Background(), "0002Pat", strings.NewReader("Blood sugar fasting 96 mg/dL"))
	require.NoError(t, err)
	assert.Equal(t, "text/plain", stored.ContentType)
}

func TestUploader_Rejects(t *testing.T) {
	ctx := context.Background()
	up := NewUploader(NewLocalStore(afero.NewMemMapFs(), "/uploads"), 16)

	_, err := up.Upload(ctx, "0002Pat", bytes.NewReader(nil))
	assert.ErrorIs(t, err, ErrEmptyFile)

	_, err = up.Upload(ctx, "0002Pat", bytes.NewReader(samplePDF))
	assert.ErrorIs(t, err, ErrFileTooLarge)

	up = NewUploader(NewLocalStore(afero.NewMemMapFs(), "/uploads"), 1024)
	_, err = up.Upload(ctx, "0002Pat", strings.NewReader("<html><body>hi</body></html>"))
	assert.ErrorIs(t, err, ErrInvalidContentType)
}

func TestLocalStore_OpenErrors(t *testing.T) {
	ctx := context.Background()
	store := NewLocalStore(afero.NewMemMapFs(), "/uploads")

	_, err := store.Open(ctx, "local://0002Pat/missing.pdf")
	assert.ErrorIs(t, err, ErrFileNotFound)

	_, err = store.Open(ctx, "local://../etc/passwd")
	assert.ErrorIs(t, err, ErrInvalidReference)

	_, err = store.Open(ctx, "s3://bucket/key")
	assert.ErrorIs(t, err, ErrInvalidReference)
}

func TestS3Store_RoundTrip(t *testing.T) {
	ctx := context.Background()
	client := newFakeS3()
	up := NewUploader(NewS3Store(client, "records"), 1024)

	stored, err := up.Upload(ctx, "0002Pat", bytes.NewReader(samplePDF))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stored.Ref, "s3://records/0002Pat/"))

	key := strings.TrimPrefix(stored.Ref, "s3://")
	assert.Equal(t, "application/pdf", client.types[key])

	data, _, err := up.Read(ctx, "0002Pat", stored.Ref)
	require.NoError(t, err)
	assert.Equal(t, samplePDF, data)

	_, err = NewS3Store(client, "records").Open(ctx, "s3://records/0002Pat/none.pdf")
	assert.ErrorIs(t, err, ErrFileNotFound)

	_, err = NewS3Store(client, "records").Open(ctx, "s3://records")
	assert.ErrorIs(t, err, ErrInvalidReference)
}

func TestS3Store_OpenRejectsOtherBucket(t *testing.T) {
	client := newFakeS3()
	client.objects["backups/db.dump"] = []byte("dump")

	_, err := NewS3Store(client, "records").Open(context.Background(), "s3://backups/db.dump")
	assert.ErrorIs(t, err, ErrInvalidReference)
}

func TestUploader_ReadRequiresOwnerPrefix(t *testing.T) {
	ctx := context.Background()
	up := NewUploader(NewLocalStore(afero.NewMemMapFs(), "/uploads"), 1024)

	stored, err := up.Upload(ctx, "0002Vic", strings.NewReader("POSITIVE confidential"))
	require.NoError(t, err)

	_, _, err = up.Read(ctx, "0003Mal", stored.Ref)
	assert.ErrorIs(t, err, ErrInvalidReference)

	_, _, err = up.Read(ctx, "0002Vi", stored.Ref)
	assert.ErrorIs(t, err, ErrInvalidReference)

	_, _, err = up.Read(ctx, "", stored.Ref)
	assert.ErrorIs(t, err, ErrInvalidReference)

	_, _, err = up.Read(ctx, "0002Vic", "0002Vic/notes.txt")
	assert.ErrorIs(t, err, ErrInvalidReference)

	data, _, err := up.Read(ctx, "0002Vic", stored.Ref)
	require.NoError(t, err)
	assert.Equal(t, "POSITIVE confidential", string(data))
}

func TestUploader_S3ReadRequiresOwnerPrefix(t *testing.T) {
	ctx := context.Background()
	up := NewUploader(NewS3Store(newFakeS3(), "records"), 1024)

	stored, err := up.Upload(ctx, "0002Vic", bytes.NewReader(samplePDF))
	require.NoError(t, err)

	_, _, err = up.Read(ctx, "0003Mal", stored.Ref)
	assert.ErrorIs(t, err, ErrInvalidReference)

	_, _, err = up.Read(ctx, "0002Vic", stored.Ref)
	assert.NoError(t, err)
}
