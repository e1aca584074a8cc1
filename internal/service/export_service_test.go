package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"messagely/internal/storage"
)

func TestExportService_Unavailable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "alice", "secret1")

	for name, svc := range map[string]ExportService{
		"no storage": NewExportService(f.messages, f.userRepo, nil, ExportConfig{Bucket: "b"}),
		"no bucket":  NewExportService(f.messages, f.userRepo, &fakeStorage{}, ExportConfig{}),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Export(ctx, "alice", "alice")
			assert.ErrorIs(t, err, ErrExportUnavailable)
			_, err = svc.ListExports(ctx, "alice", "alice")
			assert.ErrorIs(t, err, ErrExportUnavailable)
			assert.ErrorIs(t, svc.DeleteExports(ctx, "alice", "alice"), ErrExportUnavailable)
		})
	}
}

func TestExportService_Export(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "alice", "secret1")
	f.register(t, "bob", "secret2")

	_, err := f.messages.Send(ctx, "alice", "bob", "hello")
	require.NoError(t, err)
	_, err = f.messages.Send(ctx, "bob", "alice", "hi back")
	require.NoError(t, err)
	_, err = f.messages.Send(ctx, "bob", "alice", "again")
	require.NoError(t, err)

	var (
		gotOpts storage.PutOptions
		gotBody []byte
		gotTTL  time.Duration
	)
	store := &fakeStorage{
		putFunc: func(_ context.Context, body io.Reader, opts storage.PutOptions) (string, error) {
			gotOpts = opts
			var err error
			gotBody, err = io.ReadAll(body)
			return "s3://" + opts.Bucket + "/" + opts.Key, err
		},
		urlFunc: func(_ context.Context, bucket, key string, expires time.Duration) (string, error) {
			gotTTL = expires
			return "https://signed.test/" + bucket + "/" + key, nil
		},
	}
	svc := NewExportService(f.messages, f.userRepo, store, ExportConfig{
		Bucket:    "mail",
		KeyPrefix: "/exports/",
		URLTTL:    5 * time.Minute,
	})

	export, err := svc.Export(ctx, "alice", "alice")
	require.NoError(t, err)
	assert.Equal(t, 3, export.Messages)
	assert.True(t, strings.HasPrefix(export.Key, "exports/alice/"))
	assert.True(t, strings.HasSuffix(export.Key, ".json"))
	assert.Equal(t, "s3://mail/"+export.Key, export.Location)
	assert.Equal(t, "https://signed.test/mail/"+export.Key, export.URL)
	assert.Equal(t, 5*time.Minute, gotTTL)
	assert.Equal(t, "mail", gotOpts.Bucket)
	assert.Equal(t, "application/json", gotOpts.ContentType)

	var doc mailboxDocument
	require.NoError(t, json.Unmarshal(gotBody, &doc))
	assert.Equal(t, "alice", doc.Username)
	require.Len(t, doc.Sent, 1)
	assert.Equal(t, "bob", doc.Sent[0].ToUsername)
	require.Len(t, doc.Received, 2)
	assert.Equal(t, "hi back", doc.Received[0].Body)
}

func TestExportService_Authorization(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "alice", "secret1")
	f.register(t, "bob", "secret2")

	store := &fakeStorage{
		putFunc: func(context.Context, io.Reader, storage.PutOptions) (string, error) {
			t.Fatal("nothing may be uploaded for a rejected export")
			return "", nil
		},
		deleteFunc: func(context.Context, string, string) error {
			t.Fatal("nothing may be deleted for a rejected request")
			return nil
		},
	}
	svc := NewExportService(f.messages, f.userRepo, store, ExportConfig{Bucket: "mail"})

	_, err := svc.Export(ctx, "bob", "alice")
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = svc.Export(ctx, "bob", "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.ListExports(ctx, "bob", "alice")
	assert.ErrorIs(t, err, ErrForbidden)
	assert.ErrorIs(t, svc.DeleteExports(ctx, "bob", "alice"), ErrForbidden)
}

func TestExportService_ListAndDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "alice", "secret1")

	var listed, deleted string
	store := &fakeStorage{
		listFunc: func(_ context.Context, bucket, prefix string) ([]storage.ObjectInfo, error) {
			listed = bucket + ":" + prefix
			return []storage.ObjectInfo{{Key: prefix + "x.json", Size: 42}}, nil
		},
		deleteFunc: func(_ context.Context, bucket, prefix string) error {
			deleted = bucket + ":" + prefix
			return nil
		},
	}
	svc := NewExportService(f.messages, f.userRepo, store, ExportConfig{Bucket: "mail", KeyPrefix: "exports"})

	objects, err := svc.ListExports(ctx, "alice", "alice")
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.Equal(t, "mail:exports/alice/", listed)
	assert.Equal(t, int64(42), objects[0].Size)

	require.NoError(t, svc.DeleteExports(ctx, "alice", "alice"))
	assert.Equal(t, "mail:exports/alice/", deleted)
}

func TestExportService_StorageFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "alice", "secret1")

	boom := errors.New("access denied")
	store := &fakeStorage{
		putFunc: func(context.Context, io.Reader, storage.PutOptions) (string, error) { return "", boom },
	}
	svc := NewExportService(f.messages, f.userRepo, store, ExportConfig{Bucket: "mail"})

	_, err := svc.Export(ctx, "alice", "alice")
	assert.ErrorIs(t, err, ErrStoreFailure)
	assert.ErrorIs(t, err, boom)
}
