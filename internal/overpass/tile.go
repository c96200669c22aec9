package overpass

import (
	"context"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
)

// tileTemplate mirrors the city query, bounded by a bbox instead of a named
// area. Overpass bbox order is (south, west, north, east).
const tileTemplate = `[out:json][bbox:%f,%f,%f,%f];
(
    way["highway"];
    way["building"];
    way["landuse"];
    way["natural"="water"];
    way["waterway"~"river|stream|canal|ditch"];
)->.result;
(.result; .result >;);
out body;`

// TileQL builds an OverpassQL query covering a bounding box.
func TileQL(bound orb.Bound) string {
	return fmt.Sprintf(tileTemplate,
		bound.Min.Lat(), bound.Min.Lon(), bound.Max.Lat(), bound.Max.Lon())
}

// QueryTile fetches the features within one slippy-map tile.
func (c *Client) QueryTile(ctx context.Context, x, y uint32, z maptile.Zoom) ([]byte, error) {
	tile := maptile.New(x, y, z)
	return c.Query(ctx, TileQL(tile.Bound()))
}
