package chart

import "finboard/internal/core"

// MoneyDataset turns a money series into a dataset, keeping fill markers.
func MoneyDataset(label string, s core.Series[core.Money]) Dataset {
	ds := Dataset{Label: label, Values: make([]float64, len(s)), Filled: make([]bool, len(s))}
	for i, pt := range s {
		ds.Values[i] = pt.Value.Float()
		ds.Filled[i] = pt.Filled
	}
	return ds
}

// LineSpec builds a time-series chart over the series' periods.
func LineSpec(title string, labels []string, datasets ...Dataset) Spec {
	return Spec{
		Kind:     Line,
		Title:    title,
		Labels:   labels,
		Datasets: datasets,
		Style:    Style{Colors: Palette[:max(1, min(len(datasets), len(Palette)))], Area: len(datasets) == 1},
	}
}

// DoughnutSpec builds a proportion chart of category totals, in input order.
func DoughnutSpec(title string, totals []core.CategoryAmount) Spec {
	labels := make([]string, len(totals))
	values := make([]float64, len(totals))
	for i, c := range totals {
		labels[i] = c.Category
		values[i] = c.Total.Float()
	}
	return Spec{
		Kind:     Doughnut,
		Title:    title,
		Labels:   labels,
		Datasets: []Dataset{{Label: title, Values: values}},
		Style:    Style{Colors: Palette},
	}
}
