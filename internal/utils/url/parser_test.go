package urlutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	valid := []string{
		"http://example.com",
		"https://movie.douban.com/chart?t=1477886984558",
		"https://web.archive.org/web",
	}
	for _, u := range valid {
		assert.NoError(t, ValidateURL(u), u)
	}

	invalid := []string{"ftp://example.com", "//example.com", "http:///", "chart", ""}
	for _, u := range invalid {
		assert.Error(t, ValidateURL(u), u)
	}
}

func TestResolveURL(t *testing.T) {
	base := "https://movie.douban.com/chart?t=1"
	assert.Equal(t, "https://movie.douban.com/subject/1/", ResolveURL(base, "/subject/1/"))
	assert.Equal(t, "https://movie.douban.com/subject/2/", ResolveURL(base, "subject/2/"))
	assert.Equal(t, "https://other.example/x", ResolveURL(base, "https://other.example/x"))
	assert.Equal(t, "/subject/3/", ResolveURL("", "/subject/3/"))
	assert.Equal(t, "%zz", ResolveURL(base, "%zz"))
}
