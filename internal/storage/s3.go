// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package storage keeps post images in S3-compatible object storage. The
// admin console may send an image inline as a data URL; it is stored here
// and the post carries the public URL instead. It wraps the AWS SDK v2 and
// is configured for path-style access.
package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
)

// ErrBadDataURL is returned for data URLs that are not base64 images.
var ErrBadDataURL = errors.New("storage: not a base64 image data URL")

// keyPrefix is where post images live inside the bucket.
const keyPrefix = "posts/"

// extensions maps accepted image types to object key suffixes.
var extensions = map[string]string{
	"image/png":     ".png",
	"image/jpeg":    ".jpg",
	"image/gif":     ".gif",
	"image/webp":    ".webp",
	"image/avif":    ".avif",
	"image/svg+xml": ".svg",
}

// Client stores objects in one public bucket.
type Client struct {
	s3        *s3.Client
	bucket    string
	endpoint  string
	publicURL string // optional CDN/direct URL for public files
}

// New creates an S3 storage client with path-style addressing. Returns
// (nil, nil) if endpoint or credentials are empty, allowing the app to
// start without storage.
func New(endpoint, region, accessKey, secretKey, bucket, publicURL string) (*Client, error) {
	if endpoint == "" || accessKey == "" || secretKey == "" {
		return nil, nil
	}
	if bucket == "" {
		return nil, fmt.Errorf("storage: bucket must be set")
	}

	endpoint = strings.TrimRight(endpoint, "/")
	s3Client := s3.New(s3.Options{
		Region:       region,
		BaseEndpoint: aws.String(endpoint),
		Credentials:  credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		UsePathStyle: true,
	})

	return &Client{
		s3:        s3Client,
		bucket:    bucket,
		endpoint:  endpoint,
		publicURL: strings.TrimRight(publicURL, "/"),
	}, nil
}

// Upload stores an object with public-read ACL so it can be served
// directly.
func (c *Client) Upload(ctx context.Context, key, contentType string, data []byte) error {
	_, err := c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
		ACL:           s3types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return fmt.Errorf("s3 upload %s/%s: %w", c.bucket, key, err)
	}
	return nil
}

// Delete removes an object.
func (c *Client) Delete(ctx context.Context, key string) error {
	_, err := c.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3 delete %s/%s: %w", c.bucket, key, err)
	}
	return nil
}

// FileURL returns the public URL of key. Uses the configured public URL
// if set, otherwise builds a path-style URL.
func (c *Client) FileURL(key string) string {
	if c.publicURL != "" {
		return c.publicURL + "/" + key
	}
	return c.endpoint + "/" + c.bucket + "/" + key
}

// KeyOf extracts the object key from a URL produced by FileURL. ok is
// false for URLs that do not belong to this storage.
func (c *Client) KeyOf(rawURL string) (key string, ok bool) {
	if c.publicURL != "" {
		if k, found := strings.CutPrefix(rawURL, c.publicURL+"/"); found {
			return k, true
		}
	}
	if k, found := strings.CutPrefix(rawURL, c.endpoint+"/"+c.bucket+"/"); found {
		return k, true
	}
	return "", false
}

// StoreImage uploads the image encoded in a data URL under a fresh key and
// returns its public URL.
func (c *Client) StoreImage(ctx context.Context, dataURL string) (string, error) {
	contentType, data, err := DecodeDataURL(dataURL)
	if err != nil {
		return "", err
	}
	key := keyPrefix + uuid.NewString() + extensions[contentType]
	if err := c.Upload(ctx, key, contentType, data); err != nil {
		return "", err
	}
	return c.FileURL(key), nil
}

// RemoveImage deletes the object behind url when it belongs to this
// storage. Foreign URLs are ignored.
func (c *Client) RemoveImage(ctx context.Context, url string) error {
	key, ok := c.KeyOf(url)
	if !ok || !strings.HasPrefix(key, keyPrefix) {
		return nil
	}
	return c.Delete(ctx, key)
}

// DecodeDataURL splits a "data:image/<type>;base64,<payload>" URL into
// its content type and bytes.
func DecodeDataURL(dataURL string) (contentType string, data []byte, err error) {
	rest, ok := strings.CutPrefix(dataURL, "data:")
	if !ok {
		return "", nil, ErrBadDataURL
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, ErrBadDataURL
	}
	contentType, ok = strings.CutSuffix(meta, ";base64")
	if !ok {
		return "", nil, ErrBadDataURL
	}
	contentType = strings.ToLower(contentType)
	if _, known := extensions[contentType]; !known {
		return "", nil, ErrBadDataURL
	}
	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil || len(data) == 0 {
		return "", nil, ErrBadDataURL
	}
	return contentType, data, nil
}
