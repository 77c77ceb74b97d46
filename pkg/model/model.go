// Package model defines the tables of the demo dataset.
package model

import (
	"fmt"
	"time"
)

// SnapshotLayout is the layout of the fixed segment snapshot dates.
const SnapshotLayout = "02/01/2006 15:04:05"

// Category is a product category as stored in the catalog.
type Category int

const (
	CategoryCapsule   Category = 1
	CategoryMachine   Category = 2
	CategoryDiscount  Category = 3
	CategoryAccessory Category = 4
)

func (c Category) String() string {
	switch c {
	case CategoryCapsule:
		return "capsule"
	case CategoryMachine:
		return "machine"
	case CategoryDiscount:
		return "discount"
	case CategoryAccessory:
		return "accessory"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// Segment is the behavioral segment a recipient is drawn into.
type Segment string

const (
	SegmentActiveHigh   Segment = "active_high"
	SegmentActiveMedium Segment = "active_medium"
	SegmentOccasional   Segment = "occasional"
	SegmentOneTime      Segment = "one_time"
	SegmentLapsed       Segment = "lapsed"
	SegmentProspect     Segment = "prospect"
)

// Segments lists every segment in report order.
var Segments = []Segment{
	SegmentActiveHigh,
	SegmentActiveMedium,
	SegmentOccasional,
	SegmentOneTime,
	SegmentLapsed,
	SegmentProspect,
}

// Brand is a row of brands.csv.
type Brand struct {
	Name  string `po:"name,varchar(64),primaryKey"`
	Label string `po:"label,varchar(255)"`
}

func (Brand) TableName() string { return "brands" }

// Product is a catalog entry.
type Product struct {
	Code        string   `po:"code,varchar(64),primaryKey"`
	PriceRef    float64  `po:"priceref,double precision,notNull"`
	Category    Category `po:"category,smallint,notNull"`
	Description string   `po:"description,varchar(255)"`
	Brand       string   `po:"brand,varchar(64),notNull,fk(brands.name)"`
	ImageURL    string   `po:"imageurl,varchar(512)"`
}

func (Product) TableName() string { return "products" }

// Recipient is a CRM profile. Fields after Brand are derived by the
// generator.
type Recipient struct {
	CRMID           string    `po:"crmid,varchar(64),primaryKey"`
	Email           string    `po:"email,varchar(255)"`
	FirstName       string    `po:"firstname,varchar(128)"`
	LastName        string    `po:"lastname,varchar(128)"`
	Brand           string    `po:"brand,varchar(64),notNull,fk(brands.name)"`
	Segment         Segment   `po:"segment,varchar(32),derived"`
	AcquisitionDate time.Time `po:"acquisition_date,date,derived,layout(2006-01-02)"`
	Country         string    `po:"country,varchar(2),derived"`
	Gender          string    `po:"gender,varchar(8),derived"`
	Language        string    `po:"language,varchar(2),derived"`
	OwnsMachine     bool      `po:"owns_machine,boolean,derived"`
}

func (Recipient) TableName() string { return "recipients" }

// Purchase is one order line.
type Purchase struct {
	Date      time.Time `po:"date,timestamp,notNull"`
	OrderRef  string    `po:"orderref,varchar(16),primaryKey"`
	OrderLine int       `po:"orderline,integer,primaryKey,seq(orderref)"`
	Product   string    `po:"product,varchar(64),notNull,fk(products.code)"`
	Price     float64   `po:"price,double precision,notNull"`
	Quantity  int       `po:"quantity,integer,notNull"`
	Customer  string    `po:"customer,varchar(64),notNull,fk(recipients.crmid)"`
}

func (Purchase) TableName() string { return "purchases" }

// Total is price times quantity.
func (p Purchase) Total() float64 { return p.Price * float64(p.Quantity) }

// WishlistItem is one wished product.
type WishlistItem struct {
	ID           string    `po:"wishListId,varchar(16),primaryKey"`
	Name         int       `po:"wishListName,integer,notNull"`
	LastUpdate   time.Time `po:"lastUpdate,timestamp,notNull"`
	CreationDate time.Time `po:"creationDate,timestamp,notNull"`
	Product      string    `po:"product,varchar(64),notNull,fk(products.code)"`
	Customer     string    `po:"customer,varchar(64),notNull,fk(recipients.crmid)"`
}

func (WishlistItem) TableName() string { return "wishlist" }

// AbandonedItem is one line of an abandoned cart.
type AbandonedItem struct {
	Date     time.Time `po:"date,timestamp,notNull"`
	CartID   string    `po:"cartid,varchar(16),primaryKey"`
	CartLine int       `po:"cartline,integer,primaryKey,seq(cartid)"`
	Product  string    `po:"product,varchar(64),notNull,fk(products.code)"`
	Quantity int       `po:"quantity,integer,notNull"`
	ToSend   int       `po:"tosend,smallint,notNull,default(0)"`
	Customer string    `po:"customer,varchar(64),notNull,fk(recipients.crmid)"`
}

func (AbandonedItem) TableName() string { return "abandoned" }

// SegmentRecord holds the behavioral scores of one recipient.
type SegmentRecord struct {
	Customer   string    `po:"customer,varchar(64),primaryKey,fk(recipients.crmid),oneToOne"`
	ChurnProp  int       `po:"churnprop,smallint,notNull"`
	ChurnDate  time.Time `po:"churndate,timestamp,layout(02/01/2006 15:04:05)"`
	NPS        int       `po:"nps,smallint,notNull"`
	NPSDate    time.Time `po:"npsdate,timestamp,layout(02/01/2006 15:04:05)"`
	ReactScore int       `po:"reactscore,smallint,notNull"`
	ReactDate  time.Time `po:"reactdate,timestamp,layout(02/01/2006 15:04:05)"`
	VIP        int       `po:"vip,smallint,notNull"`
	VIPDate    time.Time `po:"vipdate,timestamp,layout(02/01/2006 15:04:05)"`
}

func (SegmentRecord) TableName() string { return "segments" }
