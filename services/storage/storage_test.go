package storage

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	gcs "cloud.google.com/go/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignParams(t *testing.T) {
	params := url.Values{}
	params.Set("b", "2")
	params.Set("a", "1")
	assert.Equal(t, "69021e767b8b2f38af0bcc5fcefee075eb2ec60d", signParams(params, "secret"))
}

func TestCloudinaryStore_DownloadLinkIsSignedAndExpires(t *testing.T) {
	issued := time.Unix(1700000000, 0)
	s := &CloudinaryStore{
		cloudName: "demo",
		apiKey:    "key123",
		apiSecret: "shh",
		linkTTL:   7 * 24 * time.Hour,
		now:       func() time.Time { return issued },
	}

	link, err := s.DownloadLink(context.Background(), "products/files/guide.pdf", "buyer@example.com")
	require.NoError(t, err)

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "api.cloudinary.com", u.Host)
	assert.Equal(t, "/v1_1/demo/raw/download", u.Path)

	q := u.Query()
	assert.Equal(t, "products/files/guide.pdf", q.Get("public_id"))
	assert.Equal(t, "private", q.Get("type"))
	assert.Equal(t, "key123", q.Get("api_key"))
	assert.Equal(t, "1700000000", q.Get("timestamp"))
	assert.Equal(t, "1700604800", q.Get("expires_at"))
	assert.Equal(t, "c48adaa79ee7cb895a6739082261cbaac51af0e3", q.Get("signature"))
}

func TestCloudinaryStore_DownloadLinkRejectsEmptyRef(t *testing.T) {
	s := &CloudinaryStore{now: time.Now, linkTTL: time.Hour}
	_, err := s.DownloadLink(context.Background(), "", "buyer@example.com")
	assert.Error(t, err)
}

func TestFirebaseStore_PublicURLAndDownloadLink(t *testing.T) {
	s := &FirebaseStore{bucketName: "site.appspot.com"}

	u := s.publicURL("products/files/abc-my guide.pdf")
	assert.Equal(t, "https://storage.googleapis.com/site.appspot.com/products/files/abc-my%20guide.pdf", u)

	link, err := s.DownloadLink(context.Background(), u, "")
	require.NoError(t, err)
	assert.Equal(t, u, link)
}

func TestFirebaseACLIsPublicForEveryVisibility(t *testing.T) {
	for _, v := range []Visibility{Public, Private} {
		acl := firebaseACL(v)
		require.Len(t, acl, 1)
		assert.Equal(t, gcs.AllUsers, acl[0].Entity)
		assert.Equal(t, gcs.RoleReader, acl[0].Role)
	}
}

func TestObjectName(t *testing.T) {
	tests := []struct {
		in         string
		wantSuffix string
	}{
		{"guide.pdf", "-guide.pdf"},
		{"../../etc/passwd", "-passwd"},
		{`C:\Users\me\cover image.png`, "-cover_image.png"},
		{"", "-file"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := objectName(tt.in)
			assert.True(t, strings.HasSuffix(got, tt.wantSuffix), got)
			assert.NotContains(t, got, "/")
			assert.Len(t, got, 36+len(tt.wantSuffix))
		})
	}
}

func TestDriveViewURL(t *testing.T) {
	assert.Equal(t, "https://drive.google.com/uc?export=view&id=abc", driveViewURL("abc"))
}
