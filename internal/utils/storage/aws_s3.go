package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"recipebook-backend/internal/utils"
)

var (
	ErrInvalidImagePayload = errors.New("invalid image payload")
	ErrUnsupportedImage    = errors.New("unsupported image type")
)

// AllowImage lists the content types accepted for uploaded images.
var AllowImage = []string{"image/jpeg", "image/png", "image/webp"}

type (
	AwsS3 interface {
		// UploadBase64 decodes a base64 image payload (raw or
		// "data:<type>;base64,<data>" form) and stores it under
		// dir/fileName, returning the object key.
		UploadBase64(fileName string, payload string, dir string, allow ...string) (string, error)
		DeleteFile(objectKey string) error
		GetPublicLinkKey(objectKey string) string
		GetObjectKeyFromLink(link string) string
	}

	awsS3 struct {
		client *s3.Client
		bucket string
		region string
	}
)

func NewAwsS3() AwsS3 {
	region := utils.GetConfig("AWS_S3_REGION")
	cfg, err := awsconfig.LoadDefaultConfig(
		context.Background(),
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				utils.GetConfig("AWS_ACCESS_KEY"),
				utils.GetConfig("AWS_SECRET_KEY"),
				"",
			),
		),
	)
	if err != nil {
		log.Printf("error loading AWS config: %v", err)
	}

	return &awsS3{
		client: s3.NewFromConfig(cfg),
		bucket: utils.GetConfig("AWS_S3_BUCKET"),
		region: region,
	}
}

// decodeBase64Image splits an optional data-URI prefix off the payload
// and returns the raw bytes together with the declared content type.
func decodeBase64Image(payload string) ([]byte, string, error) {
	contentType := "image/jpeg"
	data := payload

	if strings.HasPrefix(payload, "data:") {
		parts := strings.SplitN(payload, ";base64,", 2)
		if len(parts) != 2 {
			return nil, "", ErrInvalidImagePayload
		}
		contentType = strings.TrimPrefix(parts[0], "data:")
		data = parts[1]
	}

	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, "", ErrInvalidImagePayload
	}
	if len(raw) == 0 {
		return nil, "", ErrInvalidImagePayload
	}
	return raw, contentType, nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}

func (a *awsS3) UploadBase64(fileName string, payload string, dir string, allow ...string) (string, error) {
	raw, contentType, err := decodeBase64Image(payload)
	if err != nil {
		return "", err
	}

	if len(allow) > 0 {
		allowed := false
		for _, t := range allow {
			if t == contentType {
				allowed = true
				break
			}
		}
		if !allowed {
			return "", ErrUnsupportedImage
		}
	}

	objectKey := fmt.Sprintf("%s/%s%s", dir, fileName, extensionFor(contentType))
	_, err = a.client.PutObject(context.Background(), &s3.PutObjectInput{
		Bucket:      &a.bucket,
		Key:         &objectKey,
		Body:        bytes.NewReader(raw),
		ContentType: &contentType,
	})
	if err != nil {
		return "", err
	}

	return objectKey, nil
}

func (a *awsS3) DeleteFile(objectKey string) error {
	_, err := a.client.DeleteObject(context.Background(), &s3.DeleteObjectInput{
		Bucket: &a.bucket,
		Key:    &objectKey,
	})
	return err
}

func (a *awsS3) GetPublicLinkKey(objectKey string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", a.bucket, a.region, objectKey)
}

func (a *awsS3) GetObjectKeyFromLink(link string) string {
	prefix := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/", a.bucket, a.region)
	if !strings.HasPrefix(link, prefix) {
		return ""
	}
	return strings.TrimPrefix(link, prefix)
}
