package api

// MortalityReport is the JSON document consumed by the dashboard. Field names
// and array alignment are a wire contract.
type MortalityReport struct {
	Meta         Meta                `json:"meta"`
	National     National            `json:"national"`
	Demographics Demographics        `json:"demographics"`
	Provinces    map[string]Province `json:"provinces"`
}

type Meta struct {
	UpdatedAt string `json:"updated_at"`
	Source    string `json:"source"`
	Note      string `json:"note"`
}

type National struct {
	Weeks       []string `json:"weeks"`
	TotalDeaths []int    `json:"total_deaths"`
	Natural     []int    `json:"natural"`
	Unnatural   []int    `json:"unnatural"`
}

type Demographics struct {
	Gender map[string]int `json:"gender"`
	Race   map[string]int `json:"race"`
}

type Province struct {
	Deaths    []int `json:"deaths"`
	Natural   []int `json:"natural"`
	Unnatural []int `json:"unnatural"`
}
