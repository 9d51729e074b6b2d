package middleware

import "testing"

func TestComputeSignature(t *testing.T) {
	// Worked example from Twilio's security documentation.
	url := "https://mycompany.com/myapp.php?foo=1&bar=2"
	params := map[string]string{
		"CallSid": "CA1234567890ABCDE",
		"Caller":  "+12349013030",
		"Digits":  "1234",
		"From":    "+12349013030",
		"To":      "+18005551212",
	}
	got := computeSignature("12345", url, params)
	want := "RSOYDt4T1cUTdK1PDd93/VVr8B8="
	if got != want {
		t.Errorf("computeSignature = %q, want %q", got, want)
	}
}

func TestComputeSignatureOrderIndependent(t *testing.T) {
	url := "https://example.com/voice/gather"
	a := computeSignature("token", url, map[string]string{"A": "1", "B": "2"})
	b := computeSignature("token", url, map[string]string{"B": "2", "A": "1"})
	if a != b {
		t.Error("signature depends on map iteration order")
	}
}
