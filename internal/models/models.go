package models

import "time"

// Gender classifies a service or vendor audience.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderUnisex Gender = "unisex"
)

// VisitType is where a booked service is performed.
type VisitType string

const (
	VisitHome  VisitType = "home"
	VisitSalon VisitType = "salon"
)

// Booking statuses. A booking is created pending; later transitions are
// vendor-side and not enforced here.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// DaySchedule is a single weekday entry in a vendor's availability template.
type DaySchedule struct {
	Available bool     `yaml:"available" json:"available"`
	Slots     []string `yaml:"slots" json:"slots"` // e.g. ["09:00", "10:00"]
}

// WeeklyAvailability maps lowercase English weekday names ("monday") to
// that day's schedule. Days without an entry are treated as unavailable.
type WeeklyAvailability map[string]DaySchedule

// SlotsFor returns the bookable slots for a weekday. An absent entry or
// available=false yields no slots regardless of literal slot data.
func (w WeeklyAvailability) SlotsFor(day string) []string {
	entry, ok := w[day]
	if !ok || !entry.Available {
		return nil
	}
	return entry.Slots
}

// Service is a bookable offering owned by a vendor.
type Service struct {
	ID          string  `yaml:"id" json:"id"`
	Name        string  `yaml:"name" json:"name"`
	Description string  `yaml:"description" json:"description"`
	Duration    int     `yaml:"duration" json:"duration"` // minutes
	Price       float64 `yaml:"price" json:"price"`
	Gender      Gender  `yaml:"gender" json:"gender"`
	HomeVisit   bool    `yaml:"home_visit" json:"homeVisit"`
}

// Product is a retail item sold by a vendor.
type Product struct {
	ID          string  `yaml:"id" json:"id"`
	VendorID    string  `yaml:"vendor_id" json:"vendorId"`
	Name        string  `yaml:"name" json:"name"`
	Description string  `yaml:"description" json:"description"`
	Price       float64 `yaml:"price" json:"price"`
	Image       string  `yaml:"image" json:"image"`
	Category    string  `yaml:"category" json:"category"`
	InStock     bool    `yaml:"in_stock" json:"inStock"`
}

// Testimonial is a customer review attached to a vendor profile.
type Testimonial struct {
	ID         string  `yaml:"id" json:"id"`
	UserName   string  `yaml:"user_name" json:"userName"`
	UserAvatar string  `yaml:"user_avatar" json:"userAvatar"`
	Rating     float64 `yaml:"rating" json:"rating"`
	Comment    string  `yaml:"comment" json:"comment"`
	Date       string  `yaml:"date" json:"date"`
}

// Vendor is a service provider listed in the marketplace.
type Vendor struct {
	ID           string             `yaml:"id" json:"id"`
	Name         string             `yaml:"name" json:"name"`
	Profession   string             `yaml:"profession" json:"profession"`
	City         string             `yaml:"city" json:"city"`
	Avatar       string             `yaml:"avatar" json:"avatar"`
	CoverImage   string             `yaml:"cover_image" json:"coverImage"`
	Verified     bool               `yaml:"verified" json:"verified"`
	Rating       float64            `yaml:"rating" json:"rating"`
	ReviewCount  int                `yaml:"review_count" json:"reviewCount"`
	Gender       Gender             `yaml:"gender" json:"gender"`
	HomeVisit    bool               `yaml:"home_visit" json:"homeVisit"`
	SalonAddress string             `yaml:"salon_address,omitempty" json:"salonAddress,omitempty"`
	SalonName    string             `yaml:"salon_name,omitempty" json:"salonName,omitempty"`
	Bio          string             `yaml:"bio" json:"bio"`
	Services     []Service          `yaml:"services" json:"services"`
	Portfolio    []string           `yaml:"portfolio" json:"portfolio"`
	Availability WeeklyAvailability `yaml:"availability" json:"availability"`
	Products     []Product          `yaml:"products" json:"products"`
	Testimonials []Testimonial      `yaml:"testimonials" json:"testimonials"`
}

// ServiceByID returns the vendor's service with the given id, or nil.
func (v *Vendor) ServiceByID(id string) *Service {
	for i := range v.Services {
		if v.Services[i].ID == id {
			return &v.Services[i]
		}
	}
	return nil
}

// Booking is a confirmed booking record minted by the booking registry.
type Booking struct {
	ID          string    `json:"id"`
	VendorID    string    `json:"vendor_id"`
	VendorName  string    `json:"vendor_name"`
	ServiceID   string    `json:"service_id"`
	ServiceName string    `json:"service_name"`
	Date        string    `json:"date"` // YYYY-MM-DD
	Time        string    `json:"time"` // opaque slot token, e.g. "09:00"
	VisitType   VisitType `json:"visit_type"`
	Address     string    `json:"address,omitempty"`
	Status      string    `json:"status"`
	BookingCode string    `json:"booking_code"`
	Price       float64   `json:"price"`
	CreatedAt   time.Time `json:"created_at"`
}

// IsActive reports whether the booking still occupies a slot from the
// customer's point of view.
func (b *Booking) IsActive() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// CartItem is a product plus quantity in a user's cart.
type CartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// LineTotal returns price times quantity for the item.
func (c CartItem) LineTotal() float64 {
	return c.Product.Price * float64(c.Quantity)
}

// Order is a completed product checkout.
type Order struct {
	ID        string     `json:"id"`
	OrderCode string     `json:"order_code"`
	UserID    int64      `json:"user_id"`
	Items     []CartItem `json:"items"`
	Subtotal  float64    `json:"subtotal"`
	Delivery  float64    `json:"delivery"`
	Total     float64    `json:"total"`
	Shipping  Shipping   `json:"shipping"`
	CreatedAt time.Time  `json:"created_at"`
}

// Shipping is the delivery form collected at checkout.
type Shipping struct {
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	City          string `json:"city"`
	Pincode       string `json:"pincode"`
	PaymentMethod string `json:"payment_method"` // card, upi, cod
}

// SearchFilters narrows a vendor search. Zero values mean "no filter",
// except HomeVisit which is tri-state via pointer.
type SearchFilters struct {
	City      string
	Service   string
	Gender    Gender
	HomeVisit *bool
	MinRating float64
	MaxPrice  float64
}
