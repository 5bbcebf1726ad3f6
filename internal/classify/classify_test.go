package classify

import (
	"strings"
	"testing"
)

func TestIsAutomatedClient(t *testing.T) {
	cases := []struct {
		ua    string
		force bool
		want  bool
	}{
		{"facebookexternalhit/1.1 (+http://www.facebook.com/externalhit_uatext.php)", false, true},
		{"Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)", false, true},
		{"Twitterbot/1.0", false, true},
		{"WhatsApp/2.23.20.0", false, true},
		{"Mozilla/5.0 (compatible; SemrushBot/7~bl)", false, true},
		{"ia_archiver (+http://www.alexa.com/site/help/webmasters)", false, true},
		{"Some Generic Crawler", false, true},
		{"my-SPIDER/0.1", false, true},
		{"Mozilla/5.0 (Macintosh; Intel Mac OS X 14_4) AppleWebKit/605.1.15 Safari/605.1.15", false, false},
		{"Mozilla/5.0 (Windows NT 10.0; Win64; x64) Chrome/125.0.0.0", false, false},
		{"", false, false},
		{"", true, true},
		{"Mozilla/5.0 (X11; Linux x86_64) Firefox/126.0", true, true},
		{"\x00\xff garbage", false, false},
	}
	for _, c := range cases {
		if got := IsAutomatedClient(c.ua, c.force); got != c.want {
			t.Errorf("IsAutomatedClient(%q, %v) = %v, want %v", c.ua, c.force, got, c.want)
		}
	}
}

func TestEveryTokenMatchesInAnyCase(t *testing.T) {
	for _, tok := range Tokens {
		for _, ua := range []string{tok, strings.ToUpper(tok), "prefix " + tok + "/2.0"} {
			if !IsAutomatedClient(ua, false) {
				t.Errorf("token %q not matched in %q", tok, ua)
			}
		}
	}
}

func TestIsAutomatedClientIsIdempotent(t *testing.T) {
	ua := "LinkedInBot/1.0"
	first := IsAutomatedClient(ua, false)
	for i := 0; i < 3; i++ {
		if IsAutomatedClient(ua, false) != first {
			t.Fatal("result changed between calls")
		}
	}
}

func TestForceValue(t *testing.T) {
	for _, v := range []string{"1", "true", "TRUE", " yes ", "on"} {
		if !ForceValue(v) {
			t.Errorf("ForceValue(%q) = false", v)
		}
	}
	for _, v := range []string{"", "0", "false", "no", "2"} {
		if ForceValue(v) {
			t.Errorf("ForceValue(%q) = true", v)
		}
	}
}

func TestDescribe(t *testing.T) {
	info := Describe("Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0.6422.60 Safari/537.36")
	if info.Browser != "Chrome" {
		t.Errorf("browser = %q", info.Browser)
	}
	if info.Device != "Desktop" {
		t.Errorf("device = %q", info.Device)
	}
	if info.IsBot {
		t.Error("desktop Chrome flagged as bot")
	}
	if info.Raw == "" {
		t.Error("raw header not kept")
	}
}
