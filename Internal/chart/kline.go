package chart

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/shopspring/decimal"

	"github.com/fazecat/candlescope/Internal/types"
)

const gridMargin = "20px"

// Renderer draws a daily candlestick chart for a series.
type Renderer struct {
	Width  string
	Height string
}

func NewRenderer() *Renderer {
	return &Renderer{Width: "100%", Height: "520px"}
}

// KLine builds the chart. The x axis is categorical so non-trading days
// leave no gaps.
func (r *Renderer) KLine(series *types.Series) *charts.Kline {
	kline := charts.NewKLine()

	title := "Candlestick"
	if series != nil && series.Symbol != "" {
		title = fmt.Sprintf("%s Candlestick", series.Symbol)
	}

	kline.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: title,
			Width:     r.Width,
			Height:    r.Height,
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true, Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category"}),
		charts.WithGridOpts(opts.Grid{
			Left:   gridMargin,
			Right:  gridMargin,
			Top:    gridMargin,
			Bottom: gridMargin,
		}),
	)

	kline.SetXAxis(series.Dates()).AddSeries("OHLC", klineData(series))
	return kline
}

func (r *Renderer) Render(w io.Writer, series *types.Series) error {
	if err := r.KLine(series).Render(w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

// klineData orders each bar as echarts expects: open, close, low, high.
func klineData(series *types.Series) []opts.KlineData {
	items := make([]opts.KlineData, 0, series.Len())
	for i := 0; i < series.Len(); i++ {
		b := series.Bars[i]
		items = append(items, opts.KlineData{Value: [4]float64{
			round2(b.Open), round2(b.Close), round2(b.Low), round2(b.High),
		}})
	}
	return items
}

func round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}
