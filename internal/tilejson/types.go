package tilejson

// TileJSON represents a tile.json
type TileJSON struct {
	TileJSON    string      `json:"tilejson"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Scheme      string      `json:"scheme"`
	Format      string      `json:"format,omitempty"`
	Encoding    string      `json:"encoding,omitempty"`
	Tiles       []string    `json:"tiles"`
	Minzoom     uint8       `json:"minzoom"`
	Maxzoom     uint8       `json:"maxzoom"`
	Bounds      *[4]float64 `json:"bounds,omitempty"`
}
