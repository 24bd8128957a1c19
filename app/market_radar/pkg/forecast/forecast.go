// Package forecast 实现一个加性时间序列模型：分段线性趋势 + 周/年傅里叶季节项，
// 以带正则的最小二乘拟合，并给出基于残差的预测区间。
package forecast

import (
	"errors"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/iWorld-y/market_radar/app/market_radar/pkg/model"
)

// ErrNotEnoughData 有效数据不足两天
var ErrNotEnoughData = errors.New("forecast needs at least two distinct dates")

const day = 24 * time.Hour

// Mode 季节项开关
type Mode int

const (
	Auto Mode = iota
	On
	Off
)

// Options 模型参数
type Options struct {
	Changepoints       int     // 变点个数上限
	ChangepointRange   float64 // 变点分布在前多少比例的历史中
	ChangepointPenalty float64 // 变点斜率增量的 L2 惩罚
	WeeklySeasonality  Mode
	WeeklyOrder        int
	YearlySeasonality  Mode
	YearlyOrder        int
	SeasonalityPenalty float64
	IntervalWidth      float64
}

// DefaultOptions 默认参数
func DefaultOptions() Options {
	return Options{
		Changepoints:       25,
		ChangepointRange:   0.8,
		ChangepointPenalty: 10,
		WeeklySeasonality:  Auto,
		WeeklyOrder:        3,
		YearlySeasonality:  Auto,
		YearlyOrder:        10,
		SeasonalityPenalty: 0.01,
		IntervalWidth:      0.8,
	}
}

// Model 加性模型，Fit 之后才能 Predict
type Model struct {
	opts Options

	history      []time.Time
	start        time.Time
	spanDays     float64
	yScale       float64
	changepoints []float64
	weekly       bool
	yearly       bool

	beta  []float64
	sigma float64
}

// NewModel 创建模型
func NewModel(opts Options) *Model {
	return &Model{opts: opts}
}

// Fit 拟合历史数据，points 需按日期升序
func (m *Model) Fit(points []model.PricePoint) error {
	n := len(points)
	if n < 2 {
		return fmt.Errorf("%w: got %d rows", ErrNotEnoughData, n)
	}

	m.start = points[0].Date
	m.spanDays = points[n-1].Date.Sub(m.start).Hours() / 24
	if m.spanDays <= 0 {
		return fmt.Errorf("%w: history spans zero days", ErrNotEnoughData)
	}

	m.history = make([]time.Time, n)
	m.yScale = 0
	minGap := math.Inf(1)
	for i, p := range points {
		m.history[i] = p.Date
		m.yScale = math.Max(m.yScale, math.Abs(p.Close))
		if i > 0 {
			minGap = math.Min(minGap, p.Date.Sub(points[i-1].Date).Hours()/24)
		}
	}
	if m.yScale == 0 {
		m.yScale = 1
	}

	m.weekly = enabled(m.opts.WeeklySeasonality, m.spanDays >= 14 && minGap < 7)
	m.yearly = enabled(m.opts.YearlySeasonality, m.spanDays >= 730)
	m.changepoints = m.placeChangepoints()

	p := m.width()
	X := mat.NewDense(n, p, nil)
	y := mat.NewVecDense(n, nil)
	for i, pt := range points {
		X.SetRow(i, m.features(pt.Date))
		y.SetVec(i, pt.Close/m.yScale)
	}

	var A mat.Dense
	A.Mul(X.T(), X)
	penalties := m.penalties()
	for j := 0; j < p; j++ {
		A.Set(j, j, A.At(j, j)+penalties[j])
	}
	var b mat.VecDense
	b.MulVec(X.T(), y)

	sym := mat.NewSymDense(p, nil)
	for i := 0; i < p; i++ {
		for j := i; j < p; j++ {
			sym.SetSym(i, j, A.At(i, j))
		}
	}

	beta := mat.NewVecDense(p, nil)
	var chol mat.Cholesky
	if chol.Factorize(sym) {
		if err := chol.SolveVecTo(beta, &b); err != nil {
			return fmt.Errorf("solve normal equations: %w", err)
		}
	} else if err := beta.SolveVec(&A, &b); err != nil {
		return fmt.Errorf("solve normal equations: %w", err)
	}

	m.beta = make([]float64, p)
	for j := range m.beta {
		m.beta[j] = beta.AtVec(j)
	}

	resid := make([]float64, n)
	for i, pt := range points {
		resid[i] = pt.Close - m.yhat(pt.Date)
	}
	m.sigma = stat.StdDev(resid, nil)
	if math.IsNaN(m.sigma) {
		m.sigma = 0
	}
	return nil
}

// MakeFutureDates 历史日期加上之后 periods 天
func (m *Model) MakeFutureDates(periods int) []time.Time {
	dates := make([]time.Time, 0, len(m.history)+periods)
	dates = append(dates, m.history...)
	if len(m.history) == 0 {
		return dates
	}
	last := m.history[len(m.history)-1]
	for i := 1; i <= periods; i++ {
		dates = append(dates, last.Add(time.Duration(i)*day))
	}
	return dates
}

// Predict 计算点预测与上下界；超出历史的步数越多区间越宽
func (m *Model) Predict(dates []time.Time) []model.Prediction {
	if m.beta == nil {
		return nil
	}
	z := distuv.UnitNormal.Quantile(0.5 + m.opts.IntervalWidth/2)
	n := float64(len(m.history))
	last := m.history[len(m.history)-1]

	preds := make([]model.Prediction, len(dates))
	for i, d := range dates {
		yhat := m.yhat(d)
		h := math.Max(0, d.Sub(last).Hours()/24)
		sd := m.sigma * math.Sqrt(1+h/n)
		preds[i] = model.Prediction{
			Date:      d,
			Yhat:      yhat,
			YhatLower: yhat - z*sd,
			YhatUpper: yhat + z*sd,
		}
	}
	return preds
}

// Tail 返回最后 n 行
func Tail(preds []model.Prediction, n int) []model.Prediction {
	if n >= len(preds) {
		return preds
	}
	return preds[len(preds)-n:]
}

func enabled(mode Mode, auto bool) bool {
	switch mode {
	case On:
		return true
	case Off:
		return false
	default:
		return auto
	}
}

// placeChangepoints 在前 ChangepointRange 的历史中均匀取点，不含第一个点
func (m *Model) placeChangepoints() []float64 {
	histSize := int(math.Floor(float64(len(m.history)) * m.opts.ChangepointRange))
	count := m.opts.Changepoints
	if count+1 > histSize {
		count = histSize - 1
	}
	if count <= 0 {
		return nil
	}
	cps := make([]float64, 0, count)
	for k := 1; k <= count; k++ {
		idx := int(math.Round(float64(k) * float64(histSize-1) / float64(count)))
		cps = append(cps, m.scaledTime(m.history[idx]))
	}
	return cps
}

func (m *Model) scaledTime(t time.Time) float64 {
	return t.Sub(m.start).Hours() / 24 / m.spanDays
}

func (m *Model) width() int {
	w := 2 + len(m.changepoints)
	if m.weekly {
		w += 2 * m.opts.WeeklyOrder
	}
	if m.yearly {
		w += 2 * m.opts.YearlyOrder
	}
	return w
}

// features 列顺序：截距、斜率、变点、周季节、年季节
func (m *Model) features(t time.Time) []float64 {
	ts := m.scaledTime(t)
	row := make([]float64, 0, m.width())
	row = append(row, 1, ts)
	for _, cp := range m.changepoints {
		row = append(row, math.Max(0, ts-cp))
	}
	epochDays := float64(t.Unix()) / 86400
	if m.weekly {
		row = appendFourier(row, epochDays, 7, m.opts.WeeklyOrder)
	}
	if m.yearly {
		row = appendFourier(row, epochDays, 365.25, m.opts.YearlyOrder)
	}
	return row
}

func (m *Model) penalties() []float64 {
	pen := make([]float64, 0, m.width())
	pen = append(pen, 0, 0)
	for range m.changepoints {
		pen = append(pen, m.opts.ChangepointPenalty)
	}
	seasonal := 0
	if m.weekly {
		seasonal += 2 * m.opts.WeeklyOrder
	}
	if m.yearly {
		seasonal += 2 * m.opts.YearlyOrder
	}
	for i := 0; i < seasonal; i++ {
		pen = append(pen, m.opts.SeasonalityPenalty)
	}
	return pen
}

func (m *Model) yhat(t time.Time) float64 {
	row := m.features(t)
	var s float64
	for j, v := range row {
		s += v * m.beta[j]
	}
	return s * m.yScale
}

func appendFourier(row []float64, x, period float64, order int) []float64 {
	for k := 1; k <= order; k++ {
		arg := 2 * math.Pi * float64(k) * x / period
		row = append(row, math.Sin(arg), math.Cos(arg))
	}
	return row
}
