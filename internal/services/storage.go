package services

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

var (
	uploader *s3manager.Uploader
	useS3    bool
	bucket   string
	baseURL  string
	audioDir string
)

// InitStorage initializes either S3 or local storage based on configuration.
// Synthesized speech audio lands here.
func InitStorage() error {
	awsRegion := os.Getenv("AWS_REGION")
	awsAccessKey := os.Getenv("AWS_ACCESS_KEY_ID")
	awsSecretKey := os.Getenv("AWS_SECRET_ACCESS_KEY")
	bucket = os.Getenv("AWS_S3_BUCKET")
	baseURL = os.Getenv("BASE_URL")

	if awsRegion != "" && awsAccessKey != "" && awsSecretKey != "" && bucket != "" {
		sess, err := session.NewSession(&aws.Config{
			Region: aws.String(awsRegion),
			Credentials: credentials.NewStaticCredentials(
				awsAccessKey,
				awsSecretKey,
				"", // Token (optional)
			),
		})
		if err != nil {
			return fmt.Errorf("failed to create AWS session: %v", err)
		}

		uploader = s3manager.NewUploader(sess)
		useS3 = true

		fmt.Println("✅ AWS S3 storage initialized successfully")
		return nil
	}

	// Fallback to local storage
	useS3 = false
	audioDir = os.Getenv("AUDIO_DIR")
	if audioDir == "" {
		audioDir = "./static/audio"
	}
	if err := os.MkdirAll(audioDir, 0o755); err != nil {
		return fmt.Errorf("failed to create audio directory: %v", err)
	}

	fmt.Println("✅ Local audio storage initialized")
	return nil
}

// StoreAudio persists one synthesized audio payload and returns its URL.
func StoreAudio(name string, data []byte, contentType string) (string, error) {
	if useS3 {
		key := "audio/" + name
		_, err := uploader.Upload(&s3manager.UploadInput{
			Bucket:      aws.String(bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(data),
			ContentType: aws.String(contentType),
		})
		if err != nil {
			return "", fmt.Errorf("failed to upload audio to S3: %v", err)
		}
		return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", bucket, key), nil
	}

	path := filepath.Join(audioDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write audio file: %v", err)
	}
	return baseURL + "/static/audio/" + name, nil
}
