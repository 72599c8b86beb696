package resources

import (
	"context"
	"net/http"

	"github.com/RassulYunussov/fdapi"
	"github.com/tidwall/sjson"
)

const inventoryPath = "/inventory"

type Inventory struct {
	c Caller
}

// Adjustment changes the stock of one product, optionally at one store. Quantity is signed.
type Adjustment struct {
	ProductID string
	StoreID   string
	Quantity  int
	Reason    string
}

func (r *Inventory) List(ctx context.Context, params ListParams) (fdapi.Payload, error) {
	return r.c.Call(ctx, http.MethodGet, inventoryPath, params.options()...)
}

func (r *Inventory) ForProduct(ctx context.Context, productID string) (fdapi.Payload, error) {
	return r.c.Call(ctx, http.MethodGet, item(inventoryPath+"/product", productID))
}

func (r *Inventory) Adjust(ctx context.Context, adjustment Adjustment) (fdapi.Payload, error) {
	return r.c.Call(ctx, http.MethodPost, inventoryPath+"/adjust", fdapi.WithBodyBuilder(adjustment.marshal))
}

func (a Adjustment) marshal() ([]byte, error) {
	body, err := sjson.SetBytes([]byte(`{}`), "productId", a.ProductID)
	if err != nil {
		return nil, err
	}
	if body, err = sjson.SetBytes(body, "quantity", a.Quantity); err != nil {
		return nil, err
	}
	if a.StoreID != "" {
		if body, err = sjson.SetBytes(body, "storeId", a.StoreID); err != nil {
			return nil, err
		}
	}
	if a.Reason != "" {
		if body, err = sjson.SetBytes(body, "reason", a.Reason); err != nil {
			return nil, err
		}
	}
	return body, nil
}
