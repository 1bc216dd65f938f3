package redisx

import "testing"

func TestParseOptions(t *testing.T) {
	opt, err := ParseOptions("redis://:secret@localhost:6380/2", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opt.Addr != "localhost:6380" || opt.Password != "secret" || opt.DB != 2 {
		t.Fatalf("unexpected options %+v", opt)
	}
	if opt.TLSConfig != nil {
		t.Fatal("plain redis url must not enable TLS")
	}
}

func TestParseOptionsInsecureTLS(t *testing.T) {
	opt, err := ParseOptions("rediss://localhost:6380", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opt.TLSConfig == nil || !opt.TLSConfig.InsecureSkipVerify {
		t.Fatal("expected insecure TLS config")
	}
}

func TestParseOptionsRequiresURL(t *testing.T) {
	if _, err := ParseOptions("", false); err == nil {
		t.Fatal("expected error for empty url")
	}
}
