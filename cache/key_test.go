package cache

import (
	"net/url"
	"testing"
)

func TestKeyParameterOrderIndependent(t *testing.T) {
	a := Key("http://jackett:9117/api?t=search&q=dune", nil)
	b := Key("http://jackett:9117/api?q=dune&t=search", nil)
	if a != b {
		t.Errorf("keys differ for reordered parameters: %s != %s", a, b)
	}
}

func TestKeyIgnoresCredentials(t *testing.T) {
	a := Key("http://jackett:9117/api?t=search&apikey=secret1", nil)
	b := Key("http://jackett:9117/api?t=search&apikey=secret2", nil)
	c := Key("http://jackett:9117/api?t=search", nil)
	if a != b || a != c {
		t.Errorf("credential parameter leaked into key: %s %s %s", a, b, c)
	}

	d := Key("http://jackett:9117/api", url.Values{"t": {"search"}, "jackett_apikey": {"x"}})
	if d != c {
		t.Errorf("jackett_apikey leaked into key")
	}
}

func TestKeyMergesParams(t *testing.T) {
	a := Key("http://jackett:9117/api?t=search", url.Values{"q": {"dune"}})
	b := Key("http://jackett:9117/api?t=search&q=dune", nil)
	if a != b {
		t.Errorf("merged params key differs from inline query key")
	}
}

func TestKeyParamsOverrideQuery(t *testing.T) {
	a := Key("http://jackett:9117/api?q=old", url.Values{"q": {"new"}})
	b := Key("http://jackett:9117/api?q=new", nil)
	if a != b {
		t.Errorf("explicit params should win over inline query values")
	}
}

func TestKeyEncodingIndependent(t *testing.T) {
	a := Key("http://jackett:9117/api?q=dune+part+two", nil)
	b := Key("http://jackett:9117/api?q=dune%20part%20two", nil)
	if a != b {
		t.Errorf("keys differ for equivalent encodings")
	}
	// A value percent-encoded twice upstream still lands on the same entry.
	c := Key("http://jackett:9117/api?q=dune%2520part%2520two", nil)
	if a != c {
		t.Errorf("double-encoded value produced a distinct key")
	}
}

func TestKeyDifferentRequestsDiffer(t *testing.T) {
	a := Key("http://jackett:9117/api?q=dune", nil)
	b := Key("http://jackett:9117/api?q=tenet", nil)
	if a == b {
		t.Errorf("distinct queries collided")
	}
	c := Key("http://other:9117/api?q=dune", nil)
	if a == c {
		t.Errorf("distinct hosts collided")
	}
}
