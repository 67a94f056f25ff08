// Package simulate generates synthetic expense datasets for local runs and
// model experiments. Spending is heavier on weekends and typical paydays.
package simulate

import (
	"math/rand"
	"strconv"
	"time"

	"cloud.google.com/go/civil"

	"github.com/juandiazx/hackupc-2025/internal/ledger"
	"github.com/juandiazx/hackupc-2025/internal/money"
)

// Categories maps each spending category to its merchants.
var Categories = map[string][]string{
	"Groceries":      {"Local Supermarket", "Supermarket A", "Grocery Store B"},
	"Dining Out":     {"Coffee Shop Downtown", "Lunch Cafe", "Fast Food Z", "Pizzeria Bella", "Sushi Bar"},
	"Shopping":       {"Clothing Store Sale", "Bookshop", "Online Electronics", "Home Decor"},
	"Transportation": {"Petrol Station", "Bus Pass Kiosk", "Ride Sharing App"},
	"Entertainment":  {"Cinema Tickets", "Streaming Service Subscription", "Concert Venue"},
	"Utilities":      {"Electricity Bill", "Water Bill", "Internet Provider"},
	"Personal Care":  {"Haircut", "Spa Center", "Pharmacy"},
	"Health":         {"Gym Membership", "Doctor Visit", "Therapy Session"},
	"Travel":         {"Flight Booking", "Hotel Stay", "Train Ticket"},
	"Education":      {"Online Course", "Bookstore", "Workshop Fee"},
}

// AmountRanges holds the typical amount interval per category.
var AmountRanges = map[string][2]float64{
	"Groceries":      {20, 120},
	"Dining Out":     {5, 40},
	"Shopping":       {10, 200},
	"Transportation": {10, 60},
	"Entertainment":  {10, 100},
	"Utilities":      {30, 150},
	"Personal Care":  {5, 80},
	"Health":         {20, 150},
	"Travel":         {50, 500},
	"Education":      {15, 250},
}

// categoryNames in a fixed order so a seeded run is reproducible.
var categoryNames = []string{
	"Groceries", "Dining Out", "Shopping", "Transportation", "Entertainment",
	"Utilities", "Personal Care", "Health", "Travel", "Education",
}

// Generate builds a synthetic ledger covering every day from start to end
// inclusive. The same seed yields the same dataset.
func Generate(start, end civil.Date, seed int64) *ledger.Table {
	rng := rand.New(rand.NewSource(seed))

	var rows [][]string
	for d := start; !end.Before(d); d = d.AddDays(1) {
		for i := 0; i < transactionsFor(d, rng); i++ {
			category := categoryNames[rng.Intn(len(categoryNames))]
			merchants := Categories[category]
			merchant := merchants[rng.Intn(len(merchants))]
			r := AmountRanges[category]
			amount := money.Round2(r[0] + rng.Float64()*(r[1]-r[0]))

			rows = append(rows, []string{
				strconv.FormatFloat(amount, 'f', 2, 64),
				d.String(),
				category,
				merchant,
			})
		}
	}

	return ledger.NewTable(append([]string(nil), ledger.RequiredColumns...), rows)
}

// transactionsFor picks how many transactions fall on a day. Weekends and
// the usual paydays (1st, 15th, 30th) spend more.
func transactionsFor(d civil.Date, rng *rand.Rand) int {
	wd := d.In(time.UTC).Weekday()
	switch {
	case wd == time.Saturday || wd == time.Sunday:
		return 1 + rng.Intn(5)
	case d.Day == 1 || d.Day == 15 || d.Day == 30:
		return 2 + rng.Intn(5)
	default:
		// Quiet weekday: 0..3 transactions, weighted 20/30/30/20.
		roll := rng.Float64()
		switch {
		case roll < 0.2:
			return 0
		case roll < 0.5:
			return 1
		case roll < 0.8:
			return 2
		default:
			return 3
		}
	}
}
