package s3data

import (
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorageOptions(t *testing.T) {
	sess, err := session.NewSession(&aws.Config{
		Region:      aws.String("eu-west-1"),
		Credentials: credentials.NewStaticCredentials("AKID", "SECRET", ""),
	})
	require.NoError(t, err)

	opts, err := StorageOptions(sess)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"AWS_REGION":                 "eu-west-1",
		"AWS_ACCESS_KEY_ID":          "AKID",
		"AWS_SECRET_ACCESS_KEY":      "SECRET",
		"AWS_S3_ALLOW_UNSAFE_RENAME": "true",
	}, opts)
}

func TestStorageOptionsSessionToken(t *testing.T) {
	sess, err := session.NewSession(&aws.Config{
		Region:      aws.String("us-east-1"),
		Credentials: credentials.NewStaticCredentials("AKID", "SECRET", "TOKEN"),
	})
	require.NoError(t, err)

	opts, err := StorageOptions(sess)
	require.NoError(t, err)
	assert.Equal(t, "TOKEN", opts["AWS_SESSION_TOKEN"])
}
