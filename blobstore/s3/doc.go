// Package s3 stores codebooks and checkpoints in Amazon S3.
//
// # Usage
//
//	cfg, err := config.LoadDefaultConfig(ctx)
//	store := s3.NewStore(awss3.NewFromConfig(cfg), "my-bucket", "runs/ex1")
//
// DDBCommitStore layers a DynamoDB table over any blobstore.Store so that the
// "CURRENT" checkpoint pointer is updated with a conditional write.
package s3
