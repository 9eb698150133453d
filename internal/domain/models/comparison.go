package models

import "fmt"

// NewPropertyComparison builds a comparison for the given properties. Rows
// keep the input order so the table lines up with the requested ids.
func NewPropertyComparison(properties []Property) *PropertyComparison {
	comparison := &PropertyComparison{
		Properties: properties,
		Table:      buildComparisonTable(properties),
		ProsCons:   make(map[string]ProsCons, len(properties)),
	}

	avgPrice := averageOf(properties, func(p Property) *float64 { return p.Price })
	avgArea := averageOf(properties, func(p Property) *float64 { return p.LivingArea })
	avgBeds := averageOf(properties, func(p Property) *float64 { return p.Bedrooms })

	for _, p := range properties {
		comparison.ProsCons[p.ZPID] = buildProsCons(p, avgPrice, avgArea, avgBeds)
	}
	return comparison
}

func buildComparisonTable(properties []Property) map[string][]any {
	table := map[string][]any{
		"address":      make([]any, 0, len(properties)),
		"city":         make([]any, 0, len(properties)),
		"price":        make([]any, 0, len(properties)),
		"bedrooms":     make([]any, 0, len(properties)),
		"bathrooms":    make([]any, 0, len(properties)),
		"livingArea":   make([]any, 0, len(properties)),
		"yearBuilt":    make([]any, 0, len(properties)),
		"propertyType": make([]any, 0, len(properties)),
	}
	for _, p := range properties {
		table["address"] = append(table["address"], p.Address)
		table["city"] = append(table["city"], p.City)
		table["price"] = append(table["price"], derefAny(p.Price))
		table["bedrooms"] = append(table["bedrooms"], derefAny(p.Bedrooms))
		table["bathrooms"] = append(table["bathrooms"], derefAny(p.Bathrooms))
		table["livingArea"] = append(table["livingArea"], derefAny(p.LivingArea))
		table["yearBuilt"] = append(table["yearBuilt"], derefIntAny(p.YearBuilt))
		table["propertyType"] = append(table["propertyType"], p.PropertyType)
	}
	return table
}

func buildProsCons(p Property, avgPrice, avgArea, avgBeds *float64) ProsCons {
	pc := ProsCons{Pros: []string{}, Cons: []string{}}

	if p.Price != nil && avgPrice != nil {
		if *p.Price < *avgPrice {
			pc.Pros = append(pc.Pros, "Priced below the group average")
		} else if *p.Price > *avgPrice {
			pc.Cons = append(pc.Cons, "Priced above the group average")
		}
	}
	if p.LivingArea != nil && avgArea != nil {
		if *p.LivingArea > *avgArea {
			pc.Pros = append(pc.Pros, "More living space than the group average")
		} else if *p.LivingArea < *avgArea {
			pc.Cons = append(pc.Cons, "Less living space than the group average")
		}
	}
	if p.Bedrooms != nil && avgBeds != nil && *p.Bedrooms > *avgBeds {
		pc.Pros = append(pc.Pros, fmt.Sprintf("More bedrooms than average (%.0f)", *p.Bedrooms))
	}
	if p.YearBuilt != nil && *p.YearBuilt >= 2010 {
		pc.Pros = append(pc.Pros, "Recent construction")
	}
	if len(p.Features) > 0 {
		pc.Pros = append(pc.Pros, fmt.Sprintf("Notable features: %s", p.Features[0]))
	}
	return pc
}

func averageOf(properties []Property, field func(Property) *float64) *float64 {
	var sum float64
	var n int
	for _, p := range properties {
		if v := field(p); v != nil {
			sum += *v
			n++
		}
	}
	if n == 0 {
		return nil
	}
	avg := sum / float64(n)
	return &avg
}

func derefAny(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func derefIntAny(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}
