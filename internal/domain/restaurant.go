package domain

// Restaurant is an ingested listing record. Coordinates are kept as raw
// strings because the crawler emits locale-formatted numbers ("10,762" as
// well as "10.762"); parsing happens at query time.
type Restaurant struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Address       string  `json:"address"`
	AvgScore      float64 `json:"avgScore"`
	AmbienceScore float64 `json:"ambienceScore"`
	LocationScore float64 `json:"locationScore"`
	QualityScore  float64 `json:"qualityScore"`
	ServiceScore  float64 `json:"serviceScore"`
	PriceScore    float64 `json:"priceScore"`
	PriceRange    string  `json:"priceRange"`
	Tags          string  `json:"tags"`
	OpeningHours  string  `json:"openingHours"`
	Lat           string  `json:"lat"`
	Lon           string  `json:"lon"`
	AvatarURL     string  `json:"avatarUrl"`
	SourceURL     string  `json:"sourceUrl"`
}

// Candidate is a restaurant under consideration for one listing response.
// Distance is only populated on the manual processing path when the caller
// supplied usable coordinates.
type Candidate struct {
	Restaurant
	Distance float64 `json:"distance,omitempty"`
}

// ListResult is the uniform listing envelope shared by the database and
// manual processing paths.
type ListResult struct {
	Data        []Candidate `json:"data"`
	Total       int         `json:"total"`
	CurrentPage int         `json:"currentPage"`
	TotalPages  int         `json:"totalPages"`
	SortBy      string      `json:"sortBy"`
	Order       string      `json:"order"`
}

type ImageSearchResult struct {
	Data         []Candidate `json:"data"`
	DetectedFood string      `json:"detectedFood,omitempty"`
	Message      string      `json:"message,omitempty"`
	Total        int         `json:"total"`
}

type ChatResult struct {
	Reply   string      `json:"reply"`
	Results []Candidate `json:"results"`
}
