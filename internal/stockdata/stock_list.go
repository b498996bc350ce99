package stockdata

import (
	"strings"

	"price-forecast/internal/model"
)

// searchLimit 搜索最多返回条数
const searchLimit = 100

// defaultStocks NSE 常用股票
var defaultStocks = []model.Stock{
	{Symbol: "RELIANCE.NS", Name: "Reliance Industries", Ticker: "RELIANCE"},
	{Symbol: "TCS.NS", Name: "Tata Consultancy Services", Ticker: "TCS"},
	{Symbol: "HDFCBANK.NS", Name: "HDFC Bank", Ticker: "HDFCBANK"},
	{Symbol: "INFY.NS", Name: "Infosys", Ticker: "INFY"},
	{Symbol: "ICICIBANK.NS", Name: "ICICI Bank", Ticker: "ICICIBANK"},
	{Symbol: "HINDUNILVR.NS", Name: "Hindustan Unilever", Ticker: "HINDUNILVR"},
	{Symbol: "ITC.NS", Name: "ITC Limited", Ticker: "ITC"},
	{Symbol: "SBIN.NS", Name: "State Bank of India", Ticker: "SBIN"},
	{Symbol: "BHARTIARTL.NS", Name: "Bharti Airtel", Ticker: "BHARTIARTL"},
	{Symbol: "KOTAKBANK.NS", Name: "Kotak Mahindra Bank", Ticker: "KOTAKBANK"},
	{Symbol: "LT.NS", Name: "Larsen & Toubro", Ticker: "LT"},
	{Symbol: "AXISBANK.NS", Name: "Axis Bank", Ticker: "AXISBANK"},
	{Symbol: "ASIANPAINT.NS", Name: "Asian Paints", Ticker: "ASIANPAINT"},
	{Symbol: "MARUTI.NS", Name: "Maruti Suzuki", Ticker: "MARUTI"},
	{Symbol: "BAJFINANCE.NS", Name: "Bajaj Finance", Ticker: "BAJFINANCE"},
	{Symbol: "HCLTECH.NS", Name: "HCL Technologies", Ticker: "HCLTECH"},
	{Symbol: "WIPRO.NS", Name: "Wipro", Ticker: "WIPRO"},
	{Symbol: "SUNPHARMA.NS", Name: "Sun Pharmaceutical", Ticker: "SUNPHARMA"},
	{Symbol: "TITAN.NS", Name: "Titan Company", Ticker: "TITAN"},
	{Symbol: "ULTRACEMCO.NS", Name: "UltraTech Cement", Ticker: "ULTRACEMCO"},
	{Symbol: "NESTLEIND.NS", Name: "Nestle India", Ticker: "NESTLEIND"},
	{Symbol: "TATAMOTORS.NS", Name: "Tata Motors", Ticker: "TATAMOTORS"},
	{Symbol: "TATASTEEL.NS", Name: "Tata Steel", Ticker: "TATASTEEL"},
	{Symbol: "POWERGRID.NS", Name: "Power Grid Corporation", Ticker: "POWERGRID"},
	{Symbol: "NTPC.NS", Name: "NTPC Limited", Ticker: "NTPC"},
	{Symbol: "ONGC.NS", Name: "Oil and Natural Gas Corporation", Ticker: "ONGC"},
	{Symbol: "M&M.NS", Name: "Mahindra & Mahindra", Ticker: "M&M"},
	{Symbol: "TECHM.NS", Name: "Tech Mahindra", Ticker: "TECHM"},
	{Symbol: "ADANIENT.NS", Name: "Adani Enterprises", Ticker: "ADANIENT"},
	{Symbol: "ADANIPORTS.NS", Name: "Adani Ports", Ticker: "ADANIPORTS"},
	{Symbol: "COALINDIA.NS", Name: "Coal India", Ticker: "COALINDIA"},
	{Symbol: "JSWSTEEL.NS", Name: "JSW Steel", Ticker: "JSWSTEEL"},
	{Symbol: "DRREDDY.NS", Name: "Dr. Reddy's Laboratories", Ticker: "DRREDDY"},
	{Symbol: "CIPLA.NS", Name: "Cipla", Ticker: "CIPLA"},
	{Symbol: "BAJAJFINSV.NS", Name: "Bajaj Finserv", Ticker: "BAJAJFINSV"},
	{Symbol: "HEROMOTOCO.NS", Name: "Hero MotoCorp", Ticker: "HEROMOTOCO"},
	{Symbol: "EICHERMOT.NS", Name: "Eicher Motors", Ticker: "EICHERMOT"},
	{Symbol: "BRITANNIA.NS", Name: "Britannia Industries", Ticker: "BRITANNIA"},
	{Symbol: "GRASIM.NS", Name: "Grasim Industries", Ticker: "GRASIM"},
	{Symbol: "INDUSINDBK.NS", Name: "IndusInd Bank", Ticker: "INDUSINDBK"},
}

// StockList 可预测的股票列表
type StockList struct {
	stocks []model.Stock
	index  map[string]model.Stock
}

// NewStockList 创建股票列表，stocks 为空时使用内置列表
func NewStockList(stocks []model.Stock) *StockList {
	if len(stocks) == 0 {
		stocks = defaultStocks
	}
	l := &StockList{
		stocks: make([]model.Stock, 0, len(stocks)),
		index:  make(map[string]model.Stock, len(stocks)),
	}
	for _, s := range stocks {
		s.Symbol = NormalizeSymbol(s.Symbol)
		if s.Symbol == "" {
			continue
		}
		if _, dup := l.index[s.Symbol]; dup {
			continue
		}
		if s.Ticker == "" {
			s.Ticker = strings.SplitN(s.Symbol, ".", 2)[0]
		}
		l.stocks = append(l.stocks, s)
		l.index[s.Symbol] = s
	}
	return l
}

// All 全部股票
func (l *StockList) All() []model.Stock {
	return append([]model.Stock(nil), l.stocks...)
}

// Symbols 全部代码
func (l *StockList) Symbols() []string {
	out := make([]string, len(l.stocks))
	for i, s := range l.stocks {
		out[i] = s.Symbol
	}
	return out
}

// SearchStocks 按代码或名称搜索，关键词为空时返回全部
func (l *StockList) SearchStocks(keyword string) []model.Stock {
	keyword = strings.ToUpper(strings.TrimSpace(keyword))
	if keyword == "" {
		return l.All()
	}

	result := []model.Stock{}
	for _, s := range l.stocks {
		if strings.Contains(s.Symbol, keyword) ||
			strings.Contains(strings.ToUpper(s.Ticker), keyword) ||
			strings.Contains(strings.ToUpper(s.Name), keyword) {
			result = append(result, s)
			if len(result) >= searchLimit {
				break
			}
		}
	}
	return result
}

// LookupStock 按代码查找
func (l *StockList) LookupStock(symbol string) (model.Stock, bool) {
	s, ok := l.index[NormalizeSymbol(symbol)]
	return s, ok
}
