package bot

import (
	"strings"
	"testing"

	"github.com/NastyaGoryachaya/crypto-market-service/internal/domain"
)

func TestParseCount(t *testing.T) {
	if n, err := parseCount(" 5 "); err != nil || n != 5 {
		t.Fatalf("n=%d err=%v", n, err)
	}
	for _, bad := range []string{"0", "-1", "abc", "51"} {
		if _, err := parseCount(bad); err == nil {
			t.Errorf("parseCount(%q) must fail", bad)
		}
	}
}

func TestListMessage(t *testing.T) {
	if got := listMessage("Топ:", nil, 10); got != "Данных пока нет" {
		t.Fatalf("empty -> %q", got)
	}
	got := listMessage("Топ:", []domain.Asset{{Symbol: "btc", Name: "Bitcoin", CurrentPrice: 1}}, 10)
	if !strings.HasPrefix(got, "Топ:\n1. BTC Bitcoin") {
		t.Fatalf("got %q", got)
	}
}

func TestParseMinutes(t *testing.T) {
	if n, err := parseMinutes("30"); err != nil || n != 30 {
		t.Fatalf("n=%d err=%v", n, err)
	}
	for _, bad := range []string{"0", "x", "1441"} {
		if _, err := parseMinutes(bad); err == nil {
			t.Errorf("parseMinutes(%q) must fail", bad)
		}
	}
}
