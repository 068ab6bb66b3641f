package device

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
)

const (
	chromeMac   = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	safariPhone = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"
	firefoxLin  = "Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0"
)

// DeviceSuite covers the labels and fingerprints attached to login audit
// events.
type DeviceSuite struct {
	suite.Suite
	svc *Service
}

func (s *DeviceSuite) SetupTest() {
	s.svc = NewService(true)
}

func TestDeviceSuite(t *testing.T) {
	suite.Run(t, new(DeviceSuite))
}

func (s *DeviceSuite) TestParseUserAgent() {
	cases := []struct {
		name     string
		ua       string
		contains []string
	}{
		{"chrome on a workstation", chromeMac, []string{"Chrome", " on "}},
		{"safari on a phone names the platform", safariPhone, []string{" on ", "iPhone"}},
		{"firefox on linux", firefoxLin, []string{"Firefox", " on "}},
		{"unrecognised agent still gets a label", "medid-cli/1.0", []string{" on "}},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			label := ParseUserAgent(tc.ua)
			for _, want := range tc.contains {
				s.Contains(label, want)
			}
			s.Equal(strings.TrimSpace(label), label)
			s.NotContains(label, "  ")
		})
	}

	s.Run("missing header", func() {
		s.Equal(unknownDevice, ParseUserAgent(""))
		s.Equal(unknownDevice, ParseUserAgent("   "))
	})
}

func (s *DeviceSuite) TestComputeFingerprint() {
	s.Run("disabled service records nothing", func() {
		s.Empty(NewService(false).ComputeFingerprint(chromeMac))
	})

	s.Run("blank agent records nothing", func() {
		s.Empty(s.svc.ComputeFingerprint("  "))
	})

	s.Run("deterministic sha256 hex", func() {
		fp := s.svc.ComputeFingerprint(chromeMac)
		s.Equal(fp, s.svc.ComputeFingerprint(chromeMac))
		s.Len(fp, 64)
	})

	s.Run("patch releases keep the fingerprint", func() {
		a := "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.6099.109 Safari/537.36"
		b := "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.6099.224 Safari/537.36"
		s.Equal(s.svc.ComputeFingerprint(a), s.svc.ComputeFingerprint(b))
	})

	s.Run("major upgrades and other devices change it", func() {
		upgraded := strings.Replace(chromeMac, "Chrome/120", "Chrome/121", 1)
		s.NotEqual(s.svc.ComputeFingerprint(chromeMac), s.svc.ComputeFingerprint(upgraded))
		s.NotEqual(s.svc.ComputeFingerprint(chromeMac), s.svc.ComputeFingerprint(firefoxLin))
	})
}
