package krona

import "github.com/etnz/krona/date"

// lot is a single purchase still (partly) held, used by the FIFO method.
type lot struct {
	Date     date.Date
	Quantity Quantity
	Cost     Money // what the held quantity cost, fees included
}

type lots []lot

// cost returns the total cost of the held lots.
func (l lots) cost() Money {
	var total Money
	for _, lt := range l {
		total = total.Add(lt.Cost)
	}
	return total
}

// costOfSelling returns the cost of the first quantity units held.
func (l lots) costOfSelling(quantity Quantity) Money {
	var sold Money
	for _, lt := range l {
		if lt.Quantity.GreaterThan(quantity) {
			return sold.Add(lt.Cost.Mul(quantity).Div(lt.Quantity))
		}
		sold = sold.Add(lt.Cost)
		quantity = quantity.Sub(lt.Quantity)
	}
	return sold
}

// sell returns the lots left after selling the first quantity units.
func (l lots) sell(quantity Quantity) lots {
	var remaining lots
	for _, lt := range l {
		switch {
		case quantity.IsZero():
			remaining = append(remaining, lt)
		case lt.Quantity.GreaterThan(quantity):
			part := lt.Cost.Mul(quantity).Div(lt.Quantity)
			remaining = append(remaining, lot{
				Date:     lt.Date,
				Quantity: lt.Quantity.Sub(quantity),
				Cost:     lt.Cost.Sub(part),
			})
			quantity = Q(0)
		default:
			quantity = quantity.Sub(lt.Quantity)
		}
	}
	return remaining
}

// split returns the lots with every quantity scaled by in/out. Costs are
// unchanged.
func (l lots) split(in, out Quantity) lots {
	scaled := make(lots, 0, len(l))
	for _, lt := range l {
		lt.Quantity = lt.Quantity.Mul(in).Div(out)
		scaled = append(scaled, lt)
	}
	return scaled
}
