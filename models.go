package main

// Profile is one activist card in the deck, paired with the strike fund
// it raises money for. The same shape is used in the Gist wire format.
type Profile struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Age        int        `json:"age"`
	Bio        string     `json:"bio"`
	PhotoURL   string     `json:"photoUrl"`
	Location   LatLng     `json:"location"`
	StrikeFund StrikeFund `json:"strikeFund"`
}

// LatLng is a geographic coordinate in degrees.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// StrikeFund is the real crowdfunding campaign a profile represents.
type StrikeFund struct {
	ID            string `json:"id"`
	URL           string `json:"url"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Category      string `json:"category"`
	Urgency       string `json:"urgency"`
	CurrentAmount int    `json:"currentAmount"`
	TargetAmount  int    `json:"targetAmount"`
}

// Message senders
const (
	FromBot  = "bot"
	FromUser = "user"
)

// Message delivery statuses
const (
	StatusSent      = "sent"
	StatusDelivered = "delivered"
	StatusRead      = "read"
)

// ChatMessage is one entry in a per-profile transcript. Transcripts are
// append-only except for status updates on existing entries.
type ChatMessage struct {
	From   string `json:"from"`
	Text   string `json:"text"`
	Ts     int64  `json:"ts"` // epoch millis
	Status string `json:"status,omitempty"`
}
