package nutrition

// LookupResult is the fixed response shape of the barcode lookup.
type LookupResult struct {
	Barcode     string  `json:"barcode"`
	ProductName string  `json:"productName"`
	Calories    float64 `json:"calories"`
	Protein     float64 `json:"protein"`
	Carbs       float64 `json:"carbs"`
	Fat         float64 `json:"fat"`
}

// Service answers nutrition and vision lookups. Both are stubs returning
// static data until a real provider is wired in.
type Service struct{}

func NewService() *Service {
	return &Service{}
}

// LookupBarcode returns stub nutrition facts for any barcode.
// TODO: call a real nutrition provider (Open Food Facts) once an API key
// is provisioned.
func (s *Service) LookupBarcode(barcode string) (*LookupResult, error) {
	return &LookupResult{
		Barcode:     barcode,
		ProductName: "Sample Product",
		Calories:    120,
		Protein:     5,
		Carbs:       14,
		Fat:         3,
	}, nil
}

// ParseImageIngredients returns stub ingredients for any non-empty image.
func (s *Service) ParseImageIngredients(imageBase64 string) ([]string, error) {
	if imageBase64 == "" {
		return []string{}, nil
	}

	return []string{"tomato", "onion", "garlic"}, nil
}
