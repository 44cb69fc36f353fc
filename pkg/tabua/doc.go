// Package tabua reads tide tables from their JSON source file. A table is a
// list of days, each with its year ("ano"), its "DD/MM" day ("dia") and the
// day's tide events ("marés"). The types here are deliberately loose: values
// are kept as written and only validated by package tides.
package tabua
