package utils

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// S3Storage uploads public assets to an S3-compatible bucket.
type S3Storage struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

func (st S3Storage) client() *s3.S3 {
	cfg := &aws.Config{
		Region: aws.String(st.Region),
		Credentials: credentials.NewStaticCredentials(
			st.AccessKey, st.SecretKey, "",
		),
	}
	if st.Endpoint != "" {
		cfg.Endpoint = aws.String(st.Endpoint)
	}
	sess := session.Must(session.NewSession(cfg))
	return s3.New(sess)
}

// UploadFile stores the file under folder/fileName and returns its public URL.
func (st S3Storage) UploadFile(file []byte, fileName, folder, contentType string) (string, error) {
	filePath := fmt.Sprintf("%s/%s", folder, fileName)

	s3Client := st.client()

	_, err := s3Client.PutObject(&s3.PutObjectInput{
		Bucket:        aws.String(st.Bucket),
		Key:           aws.String(filePath),
		Body:          bytes.NewReader(file),
		ContentLength: aws.Int64(int64(len(file))),
		ContentType:   aws.String(contentType),
		ACL:           aws.String("public-read"),
	})
	if err != nil {
		return "", fmt.Errorf("unable to upload file to S3: %v", err)
	}

	if st.Endpoint != "" {
		host := strings.TrimPrefix(st.Endpoint, "https://")
		host = strings.TrimPrefix(host, "http://")
		return fmt.Sprintf("https://%s.%s/%s", st.Bucket, host, filePath), nil
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", st.Bucket, st.Region, filePath), nil
}
