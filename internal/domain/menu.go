package domain

type MenuItem struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Category  string  `json:"category"`
	Available bool    `json:"available"`
}

type StoreStatus struct {
	IsOpen       bool   `json:"isOpen"`
	NextOpenTime string `json:"nextOpenTime,omitempty"`
	Message      string `json:"message,omitempty"`
	LastUpdated  string `json:"lastUpdated"`
}
