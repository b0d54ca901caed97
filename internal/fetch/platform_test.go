package fetch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectPlatform(t *testing.T) {
	tests := []struct {
		url  string
		want Platform
	}{
		{"https://job-boards.greenhouse.io/doordashusa/jobs/7063751", PlatformGreenhouse},
		{"https://boards.greenhouse.io/company/jobs/123", PlatformGreenhouse},
		{"https://jobs.lever.co/company/job-id", PlatformLever},
		{"https://acme.wd5.myworkdayjobs.com/en-US/careers/job/123", PlatformWorkday},
		{"https://acme.workday.com/jobs", PlatformWorkday},
		{"https://notgreenhouse.io.example.com/jobs", PlatformUnknown},
		{"https://example.com/careers", PlatformUnknown},
		{"::bad::", PlatformUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectPlatform(tt.url))
		})
	}
}

func TestPlatformSelectors(t *testing.T) {
	greenhouse := PlatformGreenhouse.ContentSelectors()
	assert.Equal(t, ".job__description.body", greenhouse[0])
	assert.Contains(t, greenhouse, "main")

	assert.Equal(t, genericPosting, PlatformUnknown.ContentSelectors())

	assert.Contains(t, PlatformLever.NoiseSelectors(), ".posting-apply")
	assert.Contains(t, PlatformLever.NoiseSelectors(), "form")
	assert.Equal(t, commonNoise, PlatformUnknown.NoiseSelectors())

	// Callers may append without corrupting the shared tables.
	s := PlatformUnknown.ContentSelectors()
	_ = append(s[:1], "mutated")
	assert.Equal(t, ".job-description", genericPosting[0])
	assert.Equal(t, ".job-content", genericPosting[1])
}
