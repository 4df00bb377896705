package forecast

import "time"

// Row keterangan values mirror what the storefront displays.
const (
	NoteNoSales          = "Tidak ada data transaksi"
	NoteInsufficientData = "Data tidak cukup untuk peramalan"
	NoteRestock          = "Perlu restock"
	NoteStockSufficient  = "Stok mencukupi"
)

// Sale is a single outbound movement inside the requested range.
type Sale struct {
	OccurredAt time.Time
	Quantity   int
}

// CatalogItem is the item projection the planner iterates over.
type CatalogItem struct {
	ID           string
	Code         string
	Name         string
	CategoryName string
	Unit         string
	Stock        int
	LeadTimeDays *int
}

// Row is the per-item replenishment recommendation.
type Row struct {
	No                  int    `json:"no"`
	Code                string `json:"kode"`
	Name                string `json:"nama"`
	CategoryName        string `json:"kategori_nama"`
	Unit                string `json:"satuan"`
	Forecast            int    `json:"peramalan"`
	SafetyStock         int    `json:"safety_stock"`
	CurrentStock        int    `json:"stok_saat_ini"`
	RecommendedPurchase int    `json:"rekomendasi_pembelian"`
	MAPE                int    `json:"mape"`
	Note                string `json:"keterangan"`
}

// Period echoes the requested date range back to the caller.
type Period struct {
	Start string `json:"mulai"`
	End   string `json:"akhir"`
}

// Parameters reports the window and lead time the plan was computed with.
type Parameters struct {
	WindowWeeks  int `json:"window"`
	LeadTimeDays int `json:"lead_time"`
}

// Plan is the full forecasting result for one request.
type Plan struct {
	Period     Period     `json:"periode"`
	Parameters Parameters `json:"parameter"`
	Rows       []Row      `json:"data"`
}
