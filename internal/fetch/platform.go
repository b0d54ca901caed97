package fetch

import (
	"net/url"
	"strings"
)

// Platform is a known applicant tracking system that hosts job postings.
type Platform string

const (
	PlatformGreenhouse Platform = "greenhouse"
	PlatformLever      Platform = "lever"
	PlatformWorkday    Platform = "workday"
	PlatformUnknown    Platform = "unknown"
)

type platformProfile struct {
	hosts   []string
	content []string
	noise   []string
}

var profiles = map[Platform]platformProfile{
	PlatformGreenhouse: {
		hosts: []string{"greenhouse.io"},
		content: []string{
			".job__description.body",
			".job__description",
			".job-description__content",
			"#content",
			".job-post-container",
		},
		noise: []string{".application--wrapper", ".voluntary-self-id", "#usa_self_id_section", ".post-apply"},
	},
	PlatformLever: {
		hosts: []string{"lever.co"},
		content: []string{
			".posting-page",
			".section-wrapper.page-full-width",
			".posting-description",
			".content",
		},
		noise: []string{".apply-section", ".lever-application-form", ".posting-apply"},
	},
	PlatformWorkday: {
		hosts: []string{"workday.com", "myworkdayjobs.com"},
		content: []string{
			"[data-automation-id='jobPostingDescription']",
			"[data-automation-id='jobDescription']",
			".job-description",
		},
		noise: []string{"[data-automation-id='applyButton']", ".application-section"},
	},
}

// genericPosting covers job boards without a dedicated profile.
var genericPosting = []string{
	".job-description",
	".job-content",
	"#job-description",
	".posting-content",
	".job-details",
	"[data-testid='job-description']",
	"main",
	"article",
	".content",
	"#content",
}

// Removed on every platform: application forms, EEO notices, share widgets, cookie banners.
var commonNoise = []string{
	"form",
	".application-form",
	".apply-button-container",
	".eeo-statement",
	".eeo-section",
	".voluntary-disclosure",
	".legal-disclosure",
	".social-share",
	".share-buttons",
	".cookie-banner",
	".cookie-consent",
	".gdpr-notice",
}

// DetectPlatform identifies the posting platform from the URL host.
func DetectPlatform(rawURL string) Platform {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return PlatformUnknown
	}
	host := strings.ToLower(parsed.Hostname())
	for _, p := range []Platform{PlatformGreenhouse, PlatformLever, PlatformWorkday} {
		for _, h := range profiles[p].hosts {
			if host == h || strings.HasSuffix(host, "."+h) {
				return p
			}
		}
	}
	return PlatformUnknown
}

// ContentSelectors lists the selectors tried, in order, to find the posting body.
func (p Platform) ContentSelectors() []string {
	if profile, ok := profiles[p]; ok {
		return append(append([]string{}, profile.content...), genericPosting...)
	}
	return append([]string{}, genericPosting...)
}

// NoiseSelectors lists the elements removed before the body is selected.
func (p Platform) NoiseSelectors() []string {
	noise := append([]string{}, commonNoise...)
	if profile, ok := profiles[p]; ok {
		noise = append(noise, profile.noise...)
	}
	return noise
}
