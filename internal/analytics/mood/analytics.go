package mood

import (
	"sort"
	"time"

	moodvocab "github.com/linyuezhao/cultural-navigator/backend/internal/model/mood"
	"github.com/linyuezhao/cultural-navigator/backend/internal/model/post"
)

// NoDataColor 是没有帖子的日期在日历上的底色。
const NoDataColor = "#F0F0F0"

// Cell 表示日历上的一天。Column 是归一化后的 ISO 周序号
// （当月出现的第一周映射为 0），Weekday 从周一数起（0-6）。
type Cell struct {
	Day     int    `json:"day"`
	Column  int    `json:"column"`
	Weekday int    `json:"weekday"`
	Color   string `json:"color"`
	HasPost bool   `json:"hasPost"`
}

// CalendarView 是某个自然月的心情日历。
type CalendarView struct {
	Year  int    `json:"year"`
	Month int    `json:"month"`
	Cells []Cell `json:"cells"`
}

// TrendPoint 是趋势图上的一个点：帖子的心情分值与对应颜色。
type TrendPoint struct {
	PostID   int64     `json:"postId"`
	PostDate time.Time `json:"postDate"`
	Score    float64   `json:"score"`
	Color    string    `json:"color"`
}

// AxisTick 是趋势图纵轴上的一个刻度：固定心情表的分值与标签。
type AxisTick struct {
	Score float64 `json:"score"`
	Label string  `json:"label"`
}

// TrendView 是全部帖子按日期升序排列的心情走势。
// 纵轴固定为 [0, 100]，刻度取五档心情标签。
type TrendView struct {
	Points []TrendPoint `json:"points"`
	Min    float64      `json:"min"`
	Max    float64      `json:"max"`
	Ticks  []AxisTick   `json:"ticks"`
}

// LatestMonth 返回帖子里最近的发帖月份，没有帖子时返回当前月份。
func LatestMonth(records []post.Post) (int, time.Month) {
	if len(records) == 0 {
		now := time.Now().UTC()
		return now.Year(), now.Month()
	}

	latest := records[0].PostDate
	for _, record := range records[1:] {
		if record.PostDate.After(latest) {
			latest = record.PostDate
		}
	}
	return latest.Year(), latest.Month()
}

// Calendar 为目标月份生成心情日历：每天一格，颜色取当天帖子的心情色。
// 同一天有多条帖子时取创建时间最晚的一条（后写覆盖）。
func Calendar(records []post.Post, year int, month time.Month) CalendarView {
	colorByDay := make(map[int]post.Post)
	for _, record := range records {
		if record.PostDate.Year() != year || record.PostDate.Month() != month {
			continue
		}
		day := record.PostDate.Day()
		winner, ok := colorByDay[day]
		if !ok || laterCreated(record, winner) {
			colorByDay[day] = record
		}
	}

	daysInMonth := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()

	// 归一化 ISO 周序号：按出现顺序给当月的每个周编号，
	// 从 0 开始，天然处理 12 月底/1 月初的周序回绕。
	columns := make(map[int]int)
	cells := make([]Cell, 0, daysInMonth)
	for day := 1; day <= daysInMonth; day++ {
		date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
		_, isoWeek := date.ISOWeek()
		if _, ok := columns[isoWeek]; !ok {
			columns[isoWeek] = len(columns)
		}

		cell := Cell{
			Day:     day,
			Column:  columns[isoWeek],
			Weekday: mondayIndexed(date.Weekday()),
			Color:   NoDataColor,
		}
		if winner, ok := colorByDay[day]; ok && winner.MoodColor != "" {
			cell.Color = winner.MoodColor
			cell.HasPost = true
		} else if ok {
			cell.HasPost = true
		}
		cells = append(cells, cell)
	}

	return CalendarView{Year: year, Month: int(month), Cells: cells}
}

// Trend 生成全量帖子的心情走势，按发帖日期升序，日期相同按创建先后。
func Trend(records []post.Post) TrendView {
	points := make([]TrendPoint, 0, len(records))
	for _, record := range records {
		points = append(points, TrendPoint{
			PostID:   record.ID,
			PostDate: record.PostDate,
			Score:    record.MoodScore,
			Color:    record.MoodColor,
		})
	}

	sort.SliceStable(points, func(i, j int) bool {
		if !points[i].PostDate.Equal(points[j].PostDate) {
			return points[i].PostDate.Before(points[j].PostDate)
		}
		return points[i].PostID < points[j].PostID
	})

	ticks := make([]AxisTick, 0, 5)
	for _, entry := range moodvocab.Entries() {
		ticks = append(ticks, AxisTick{Score: entry.Score, Label: entry.Label})
	}

	return TrendView{Points: points, Min: 0, Max: 100, Ticks: ticks}
}

// laterCreated 比较创建时间，时间相同按 id 决出后写者。
func laterCreated(a, b post.Post) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}

// mondayIndexed 把 time.Weekday（周日为 0）换算成周一为 0 的下标。
func mondayIndexed(d time.Weekday) int {
	return (int(d) + 6) % 7
}
