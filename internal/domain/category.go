package domain

// Category maps a stable key (used by the UI and API) to the display
// labels the Qplix tree uses for node names. Name is the label that
// appears in the tree; NameDe is the German label shown in the UI.
type Category struct {
	Key    string   `json:"key"`
	Name   string   `json:"name"`
	NameDe string   `json:"nameDe"`
	Tags   []string `json:"tags,omitempty"`
}

var Categories = []Category{
	{Key: "liquidity", Name: "Liquidity", NameDe: "Liquidität", Tags: []string{"FederalReserve", "ECB", "monetarypolicy", "interestrates", "centralbank"}},
	{Key: "stocks", Name: "Stocks", NameDe: "Aktien", Tags: []string{"stocks", "stockmarket", "nasdaq", "DowJones", "SP500", "wallstreet"}},
	{Key: "bonds", Name: "Bonds", NameDe: "Anleihen", Tags: []string{"bonds", "treasury", "fixedincome", "yields", "debt"}},
	{Key: "commodities", Name: "Commodities", NameDe: "Rohstoffe", Tags: []string{"gold", "silver", "oil", "commodities", "metals"}},
	{Key: "crypto", Name: "Crypto currencies", NameDe: "Kryptowährungen", Tags: []string{"bitcoin", "ethereum", "crypto", "blockchain", "defi", "web3"}},
	{Key: "real-estate", Name: "Real estate", NameDe: "Immobilien", Tags: []string{"realestate", "property", "housing", "REIT", "mortgage"}},
	{Key: "art-collectibles", Name: "Art and collectibles", NameDe: "Kunst & Sammlerstücke", Tags: []string{"art", "collectibles", "auction", "luxury", "antiques"}},
	{Key: "private-equity", Name: "Private equity", NameDe: "Private Equity", Tags: []string{"privateequity", "venturecapital", "startup", "IPO", "acquisitions"}},
	{Key: "direct-holdings", Name: "Direct holdings", NameDe: "Direktbeteiligungen", Tags: []string{"investment", "equity", "capital", "funding"}},
	{Key: "alternative-energy", Name: "Alternative energies", NameDe: "Alternative Energien", Tags: []string{"solar", "renewable", "cleanenergy", "windpower", "greentech"}},
	{Key: "agriculture", Name: "Agriculture and forestry", NameDe: "Landwirtschaft & Forstwirtschaft", Tags: []string{"agriculture", "farming", "agribusiness", "crops", "timber"}},
}

func CategoryByKey(key string) (Category, bool) {
	for _, c := range Categories {
		if c.Key == key {
			return c, true
		}
	}
	return Category{}, false
}
