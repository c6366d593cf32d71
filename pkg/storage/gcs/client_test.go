package gcs

import (
	"context"
	"testing"
	"time"

	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/config"
)

func TestNewClientRequiresBucket(t *testing.T) {
	if _, err := NewClient(context.Background(), config.GCSConfig{}); err == nil {
		t.Fatal("expected error without bucket name")
	}
}

func TestNewClientRejectsBadCredentials(t *testing.T) {
	_, err := NewClient(context.Background(), config.GCSConfig{
		BucketName:      "srisawat-pos",
		CredentialsJSON: "{not json",
	})
	if err == nil {
		t.Fatal("expected error for malformed credentials")
	}

	_, err = NewClient(context.Background(), config.GCSConfig{
		BucketName:      "srisawat-pos",
		CredentialsJSON: `{"client_email":"","private_key":""}`,
	})
	if err == nil {
		t.Fatal("expected error for incomplete credentials")
	}
}

func TestPublicURL(t *testing.T) {
	c := &Client{bucket: "srisawat-pos"}
	if got := c.PublicURL("logos/store.png"); got != "https://storage.googleapis.com/srisawat-pos/logos/store.png" {
		t.Fatalf("unexpected url: %s", got)
	}
}

func TestTokenSourceCachesUntilExpiry(t *testing.T) {
	calls := 0
	ts := &tokenSource{
		fetch: func(context.Context) (string, time.Time, error) {
			calls++
			return "tok", time.Now().Add(time.Hour), nil
		},
	}

	for i := 0; i < 3; i++ {
		token, err := ts.Token(context.Background())
		if err != nil {
			t.Fatalf("token: %v", err)
		}
		if token != "tok" {
			t.Fatalf("unexpected token: %s", token)
		}
	}
	if calls != 1 {
		t.Fatalf("expected one fetch, got %d", calls)
	}
}

func TestUploadRequiresObjectName(t *testing.T) {
	c := &Client{bucket: "srisawat-pos", tokenSource: &tokenSource{
		fetch: func(context.Context) (string, time.Time, error) {
			return "tok", time.Now().Add(time.Hour), nil
		},
	}}
	if _, err := c.Upload(context.Background(), "  ", "image/png", nil); err == nil {
		t.Fatal("expected error for blank object name")
	}
}
