package filter

import "testing"

func mustMatch(t *testing.T, pattern, input string, want bool) {
	t.Helper()
	p, err := CompileLike(pattern)
	if err != nil {
		t.Fatalf("CompileLike(%q): %v", pattern, err)
	}
	if got := p.Match(input); got != want {
		t.Fatalf("CompileLike(%q).Match(%q) = %v, want %v", pattern, input, got, want)
	}
}

func TestLikeLiteral(t *testing.T) {
	mustMatch(t, "hello", "hello", true)
	mustMatch(t, "hello", "Hello", false)
}

func TestLikeSingleWildcard(t *testing.T) {
	mustMatch(t, "_", "", false)
	mustMatch(t, "_", "a", true)
	mustMatch(t, "_", "ab", false)
	mustMatch(t, "h_llo", "hello", true)
	mustMatch(t, "h_llo", "hallo", true)
	mustMatch(t, "h_llo", "hllo", false)
}

func TestLikeMultiWildcard(t *testing.T) {
	mustMatch(t, "h%o", "ho", true)
	mustMatch(t, "h%o", "hello", true)
	mustMatch(t, "h%o", "h123o", true)
	mustMatch(t, "h%o", "h", false)
	mustMatch(t, "h%o", "hello world", false)
	mustMatch(t, "h%o", "helle", false)
}

func TestLikeComplexPattern(t *testing.T) {
	mustMatch(t, "h%o_w%rld_", "hello world!", true)
	mustMatch(t, "h%o_w%rld_", "h123o_w456rld!", true)
	mustMatch(t, "h%o_w%rld_", "h123o_w456rd", false)
}

func TestLikeConsecutiveWildcards(t *testing.T) {
	mustMatch(t, "h%%o", "ho", true)
	mustMatch(t, "h%%o", "hello", true)
	mustMatch(t, "h%%o", "h", false)
	mustMatch(t, "h%_o", "hxo", true)
	mustMatch(t, "h%_o", "hello", true)
	mustMatch(t, "h%_o", "h", false)
	mustMatch(t, "h%_o", "ho", false)
}

func TestLikeEscapes(t *testing.T) {
	mustMatch(t, "h\\%_o%", "h%xo", true)
	mustMatch(t, "h\\%_o%", "h%lo!", true)
	mustMatch(t, "h\\%_o%", "h%ao", true)
	mustMatch(t, "h\\%_o%", "h", false)
	mustMatch(t, "h\\%_o%", "ho", false)
	mustMatch(t, "h\\%_o%", "h%o", false)
}

func TestLikeMultibyteCharacters(t *testing.T) {
	mustMatch(t, "café", "café", true)
	mustMatch(t, "café", "cafe", false)

	mustMatch(t, "caf_", "café", true)
	mustMatch(t, "caf_", "cafe", true)
	mustMatch(t, "caf_", "caf", false)
	mustMatch(t, "caf_", "café!", false)

	mustMatch(t, "%\U0001f600%", "\U0001f600", true)
	mustMatch(t, "%\U0001f600%", "hello \U0001f600 world", true)
	mustMatch(t, "%\U0001f600%", "hello world", false)

	mustMatch(t, "_é%\U0001f600_", "béer\U0001f600!", true)
	mustMatch(t, "_é%\U0001f600_", "cé\U0001f600x", true)
	mustMatch(t, "_é%\U0001f600_", "é\U0001f600x", false)

	mustMatch(t, "\U0001f600_\U0001f600", "\U0001f600\U0001f60d\U0001f600", true)
	mustMatch(t, "\U0001f600_\U0001f600", "\U0001f600\U0001f600", false)
}
