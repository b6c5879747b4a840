// Package s3 provides an Amazon S3 implementation of blobstore.BlobStore.
//
// # Usage
//
//	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion("eu-central-1"))
//	store := s3.NewStore(awss3.NewFromConfig(cfg), "my-bucket", "logs/")
//
//	eng := lfpreview.New(lfpreview.WithBlobStore("s3", store))
//	id, err := eng.Open(ctx, "s3://2024/app.log")
//
// # Features
//
//   - HeadObject on open, so missing keys fail fast with blobstore.ErrNotFound
//   - Ranged GETs for partial reads
//   - Parallel multi-part download into the spill file (transfer manager)
package s3
