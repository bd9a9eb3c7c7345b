package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/hupe1980/lvqgo/blobstore"
	lvqminio "github.com/hupe1980/lvqgo/blobstore/minio"
	lvqs3 "github.com/hupe1980/lvqgo/blobstore/s3"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// storeLocation is a parsed store URL.
type storeLocation struct {
	Scheme string
	// Host is the bucket for s3 and the endpoint for minio.
	Host   string
	Bucket string
	Prefix string
	// Table names the DynamoDB table publishing CURRENT pointers (s3 only).
	Table  string
	Secure bool
}

// parseStoreURL understands
//
//	file://dir          local directory (relative or absolute)
//	mem://              process-local memory
//	s3://bucket/prefix[?ddb=table]
//	minio://host:port/bucket/prefix[?secure=false]
//
// A bare path is treated as a local directory.
func parseStoreURL(raw string) (storeLocation, error) {
	if !strings.Contains(raw, "://") {
		return storeLocation{Scheme: "file", Prefix: raw}, nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return storeLocation{}, fmt.Errorf("invalid store URL %q: %w", raw, err)
	}

	loc := storeLocation{Scheme: u.Scheme, Secure: true}
	switch u.Scheme {
	case "file":
		loc.Prefix = u.Host + u.Path
		if loc.Prefix == "" {
			loc.Prefix = "."
		}
	case "mem":
	case "s3":
		if u.Host == "" {
			return storeLocation{}, fmt.Errorf("store URL %q: missing bucket", raw)
		}
		loc.Bucket = u.Host
		loc.Prefix = strings.TrimPrefix(u.Path, "/")
		loc.Table = u.Query().Get("ddb")
	case "minio":
		bucket, prefix, _ := strings.Cut(strings.TrimPrefix(u.Path, "/"), "/")
		if u.Host == "" || bucket == "" {
			return storeLocation{}, fmt.Errorf("store URL %q: want minio://host/bucket[/prefix]", raw)
		}
		loc.Host, loc.Bucket, loc.Prefix = u.Host, bucket, prefix
		if v := u.Query().Get("secure"); v != "" {
			secure, err := strconv.ParseBool(v)
			if err != nil {
				return storeLocation{}, fmt.Errorf("store URL %q: invalid secure flag: %w", raw, err)
			}
			loc.Secure = secure
		}
	default:
		return storeLocation{}, fmt.Errorf("unsupported store scheme %q", u.Scheme)
	}
	return loc, nil
}

// openStore connects to the store named by raw. Cloud credentials come from
// the environment: the default AWS chain for s3, MINIO_ACCESS_KEY and
// MINIO_SECRET_KEY for minio.
func openStore(ctx context.Context, raw string) (blobstore.Store, error) {
	loc, err := parseStoreURL(raw)
	if err != nil {
		return nil, err
	}

	switch loc.Scheme {
	case "file":
		return blobstore.NewLocalStore(loc.Prefix), nil
	case "mem":
		return blobstore.NewMemoryStore(), nil
	case "s3":
		cfg, err := config.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("load AWS config: %w", err)
		}
		var store blobstore.Store = lvqs3.NewStore(awss3.NewFromConfig(cfg), loc.Bucket, loc.Prefix)
		if loc.Table != "" {
			base := "s3://" + loc.Bucket + "/" + loc.Prefix
			store = lvqs3.NewDDBCommitStore(store, dynamodb.NewFromConfig(cfg), loc.Table, base)
		}
		return store, nil
	case "minio":
		client, err := minio.New(loc.Host, &minio.Options{
			Creds:  credentials.NewStaticV4(os.Getenv("MINIO_ACCESS_KEY"), os.Getenv("MINIO_SECRET_KEY"), ""),
			Secure: loc.Secure,
		})
		if err != nil {
			return nil, fmt.Errorf("connect to minio: %w", err)
		}
		return lvqminio.NewStore(client, loc.Bucket, loc.Prefix), nil
	}
	return nil, fmt.Errorf("unsupported store scheme %q", loc.Scheme)
}
