package finance

import "fmt"

// testDataset builds aligned daily charts from close series.
func testDataset(companies ...Company) Dataset {
	return Dataset(companies)
}

func testCompany(ticker, sector string, cap float64, closes ...float64) Company {
	chart := make([]Bar, len(closes))
	for i, c := range closes {
		chart[i] = Bar{
			Date:   fmt.Sprintf("2021-03-%02d", i+1),
			Open:   c,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 1000,
		}
	}
	return Company{Ticker: ticker, Name: ticker + " Inc", Sector: sector, MarketCap: cap, Chart: chart}
}
