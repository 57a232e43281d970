// Package catalog implementa el puerto inventory.Catalog contra el servicio
// de catálogo (colaborador externo). El inventario solo necesita existencia,
// precio vigente y el callback de unidades vendidas.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/stock-ledger/internal/domain"
)

// Client cliente HTTP del servicio de catálogo.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient construye el cliente. baseURL sin slash final (ej. http://catalog:8081).
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 5 * time.Second},
	}
}

type productResponse struct {
	ID    string          `json:"id"`
	Price decimal.Decimal `json:"price"`
}

// ProductExists verifica que el producto exista en el catálogo.
func (c *Client) ProductExists(ctx context.Context, productID string) (bool, error) {
	resp, err := c.get(ctx, productID)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("catalog: estado inesperado %d", resp.StatusCode)
	}
}

// CurrentPrice devuelve el precio vigente del producto (para valoración/semilla de costo).
func (c *Client) CurrentPrice(ctx context.Context, productID string) (decimal.Decimal, error) {
	resp, err := c.get(ctx, productID)
	if err != nil {
		return decimal.Zero, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return decimal.Zero, domain.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("catalog: estado inesperado %d", resp.StatusCode)
	}
	var p productResponse
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return decimal.Zero, fmt.Errorf("catalog: decodificar producto: %w", err)
	}
	return p.Price, nil
}

// IncrementSoldCount notifica al catálogo las unidades vendidas confirmadas.
// Se invoca después del commit de la venta, nunca dentro del bloqueo de fila.
func (c *Client) IncrementSoldCount(ctx context.Context, productID string, quantity int64) error {
	body, _ := json.Marshal(map[string]int64{"quantity": quantity})
	url := fmt.Sprintf("%s/api/products/%s/sold", c.baseURL, productID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("catalog: construir request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("catalog: sold count: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("catalog: sold count estado %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) get(ctx context.Context, productID string) (*http.Response, error) {
	url := fmt.Sprintf("%s/api/products/%s", c.baseURL, productID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("catalog: construir request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog: consultar producto: %w", err)
	}
	return resp, nil
}
