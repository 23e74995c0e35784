package catalog

import "github.com/shopspring/decimal"

// Demo returns the seed books used by the demo frontend and the test
// fixtures.
func Demo() []Book {
	return []Book{
		MustNew("The Great Gatsby", "Fiction", decimal.NewFromFloat(10.99), "img1.jpg"),
		MustNew("1984", "Dystopia", decimal.NewFromFloat(8.99), "img2.jpg"),
		MustNew("Moby Dick", "Adventure", decimal.NewFromFloat(12.49), "img3.jpg"),
	}
}
