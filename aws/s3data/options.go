package s3data

import (
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
)

// StorageOptions exports the credentials resolved by sess as the environment
// style options expected by object-store clients such as delta-rs and
// DuckDB. A nil sess resolves through the shared config chain.
func StorageOptions(sess *session.Session) (map[string]string, error) {
	if sess == nil {
		var err error
		sess, err = session.NewSessionWithOptions(session.Options{
			SharedConfigState: session.SharedConfigEnable,
		})
		if err != nil {
			return nil, fmt.Errorf("aws session: %w", err)
		}
	}

	creds, err := sess.Config.Credentials.Get()
	if err != nil {
		return nil, fmt.Errorf("aws credentials: %w", err)
	}

	opts := map[string]string{
		"AWS_REGION":                 aws.StringValue(sess.Config.Region),
		"AWS_ACCESS_KEY_ID":          creds.AccessKeyID,
		"AWS_SECRET_ACCESS_KEY":      creds.SecretAccessKey,
		"AWS_S3_ALLOW_UNSAFE_RENAME": "true",
	}
	if creds.SessionToken != "" {
		opts["AWS_SESSION_TOKEN"] = creds.SessionToken
	}
	return opts, nil
}

// SessionConfig selects the region, profile and endpoint of a session.
// Empty fields fall back to the shared AWS config and environment.
type SessionConfig struct {
	Region         string
	Profile        string
	Endpoint       string
	ForcePathStyle bool
}

func NewSession(cfg SessionConfig) (*session.Session, error) {
	awsCfg := aws.Config{}
	if cfg.Region != "" {
		awsCfg.Region = aws.String(cfg.Region)
	}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
	}
	if cfg.ForcePathStyle {
		awsCfg.S3ForcePathStyle = aws.Bool(true)
	}
	sess, err := session.NewSessionWithOptions(session.Options{
		Config:            awsCfg,
		Profile:           cfg.Profile,
		SharedConfigState: session.SharedConfigEnable,
	})
	if err != nil {
		return nil, fmt.Errorf("aws session: %w", err)
	}
	return sess, nil
}
