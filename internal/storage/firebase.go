package storage

import (
	"context"
	"errors"
	"fmt"

	gcs "cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
)

// FirebaseBackend stores images in the project's Firebase Storage bucket.
type FirebaseBackend struct {
	bucket    *gcs.BucketHandle
	refPrefix string
}

func NewFirebaseBackend(ctx context.Context, app *firebase.App, bucketName string) (*FirebaseBackend, error) {
	if app == nil {
		return nil, errors.New("firebase app is not configured")
	}
	client, err := app.Storage(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase storage client: %w", err)
	}

	var bucket *gcs.BucketHandle
	if bucketName == "" {
		bucket, err = client.DefaultBucket()
	} else {
		bucket, err = client.Bucket(bucketName)
	}
	if err != nil {
		return nil, fmt.Errorf("firebase bucket: %w", err)
	}

	attrsName := bucketName
	if attrsName == "" {
		attrs, err := bucket.Attrs(ctx)
		if err != nil {
			return nil, fmt.Errorf("firebase bucket attrs: %w", err)
		}
		attrsName = attrs.Name
	}

	return &FirebaseBackend{
		bucket:    bucket,
		refPrefix: "https://storage.googleapis.com/" + attrsName + "/",
	}, nil
}

func (b *FirebaseBackend) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	objectKey := s3KeyPrefix + key
	w := b.bucket.Object(objectKey).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}
	return b.refPrefix + objectKey, nil
}

func (b *FirebaseBackend) Remove(ctx context.Context, ref string) error {
	objectKey, ok := objectKeyFromRef(ref, b.refPrefix)
	if !ok {
		return nil
	}
	err := b.bucket.Object(objectKey).Delete(ctx)
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return nil
	}
	return err
}
