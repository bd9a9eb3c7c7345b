// Package minio stores codebooks and checkpoints in MinIO or any other
// S3-compatible server through the MinIO Go client.
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//	    Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
//	    Secure: false,
//	})
//	store := minioblob.NewStore(client, "lvq", "runs/ex1")
package minio
