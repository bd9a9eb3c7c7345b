package main

import (
	"context"
	"testing"

	"github.com/hupe1980/lvqgo/blobstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStoreURL(t *testing.T) {
	tests := []struct {
		raw     string
		want    storeLocation
		wantErr bool
	}{
		{raw: "runs", want: storeLocation{Scheme: "file", Prefix: "runs"}},
		{raw: "file://.", want: storeLocation{Scheme: "file", Prefix: ".", Secure: true}},
		{raw: "file:///var/lvq", want: storeLocation{Scheme: "file", Prefix: "/var/lvq", Secure: true}},
		{raw: "file://data/runs", want: storeLocation{Scheme: "file", Prefix: "data/runs", Secure: true}},
		{raw: "mem://", want: storeLocation{Scheme: "mem", Secure: true}},
		{raw: "s3://bucket/exp/1", want: storeLocation{Scheme: "s3", Bucket: "bucket", Prefix: "exp/1", Secure: true}},
		{raw: "s3://bucket/exp?ddb=commits", want: storeLocation{Scheme: "s3", Bucket: "bucket", Prefix: "exp", Table: "commits", Secure: true}},
		{raw: "minio://localhost:9000/lvq/runs?secure=false", want: storeLocation{Scheme: "minio", Host: "localhost:9000", Bucket: "lvq", Prefix: "runs"}},
		{raw: "minio://localhost:9000/lvq", want: storeLocation{Scheme: "minio", Host: "localhost:9000", Bucket: "lvq", Secure: true}},
		{raw: "s3:///exp", wantErr: true},
		{raw: "minio://localhost:9000", wantErr: true},
		{raw: "minio://localhost:9000/lvq?secure=maybe", wantErr: true},
		{raw: "ftp://host/x", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := parseStoreURL(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()

	s, err := openStore(ctx, "file://"+t.TempDir())
	require.NoError(t, err)
	assert.IsType(t, &blobstore.LocalStore{}, s)

	s, err = openStore(ctx, "mem://")
	require.NoError(t, err)
	assert.IsType(t, &blobstore.MemoryStore{}, s)

	require.NoError(t, s.Put(ctx, "a", []byte("x")))
	got, err := blobstore.ReadAll(ctx, s, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), got)
}
