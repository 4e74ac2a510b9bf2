package store

// Reference shapes expected by the content store's document schema.

type ImageRef struct {
	Type  string   `json:"_type"`
	Asset AssetRef `json:"asset"`
}

type AssetRef struct {
	Type string `json:"_type"`
	Ref  string `json:"_ref"`
}

// NewImageRef wraps an uploaded asset ID into the image reference shape
// document fields expect.
func NewImageRef(assetID string) ImageRef {
	return ImageRef{
		Type: "image",
		Asset: AssetRef{
			Type: "reference",
			Ref:  assetID,
		},
	}
}

type queryResponse struct {
	Result []rawDocument `json:"result"`
}

type rawDocument = map[string]any

type mutateRequest struct {
	Mutations []mutation `json:"mutations"`
}

type mutation struct {
	Create any           `json:"create,omitempty"`
	Patch  *patchPayload `json:"patch,omitempty"`
}

type patchPayload struct {
	ID  string `json:"id"`
	Set any    `json:"set,omitempty"`
}

type mutateResponse struct {
	TransactionID string `json:"transactionId"`
	Results       []struct {
		ID        string `json:"id"`
		Operation string `json:"operation"`
	} `json:"results"`
}

type assetResponse struct {
	Document struct {
		ID string `json:"_id"`
	} `json:"document"`
}

type errorResponse struct {
	Error struct {
		Description string `json:"description"`
		Type        string `json:"type"`
	} `json:"error"`
	Message string `json:"message"`
}
