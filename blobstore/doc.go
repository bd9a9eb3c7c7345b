// Package blobstore provides the storage abstraction behind codebook files,
// training checkpoints and OLVQ1 rate side files.
//
// Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: local filesystem with atomic renames
//   - MemoryStore: in-memory, for tests and dry runs
//   - s3.Store: Amazon S3 with range reads and multipart uploads
//   - s3.DDBCommitStore: S3 plus a DynamoDB-backed "CURRENT" pointer
//   - minio.Store: MinIO and other S3-compatible servers
package blobstore
