package botfmt

import (
	"strings"
	"testing"

	"github.com/NastyaGoryachaya/crypto-market-service/internal/domain"
)

func TestHumanPrice(t *testing.T) {
	cases := map[float64]string{
		65000.5:    "65000.50",
		1:          "1.00",
		0:          "0.00",
		0.00001234: "0.00001234",
		0.5:        "0.5",
	}
	for in, want := range cases {
		if got := HumanPrice(in); got != want {
			t.Errorf("HumanPrice(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatAssetList_Limit(t *testing.T) {
	items := []domain.Asset{
		{Symbol: "btc", Name: "Bitcoin", CurrentPrice: 65000, PriceChangePercentage24h: 1.5},
		{Symbol: "eth", Name: "Ethereum", CurrentPrice: 3000, PriceChangePercentage24h: -2},
		{Symbol: "sol", Name: "Solana", CurrentPrice: 150},
	}

	got := FormatAssetList("Топ", items, 2)
	want := "Топ\n1. BTC Bitcoin | $65000.00 | +1.50%\n2. ETH Ethereum | $3000.00 | -2.00%"
	if got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
	if strings.Contains(got, "SOL") {
		t.Fatalf("limit ignored")
	}
}
