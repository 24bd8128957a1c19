package llm

// 模板变量使用 FString 语法，正文中不能出现其他花括号

const recommendTemplate = `
You are a financial analyst. Based on the following market news (current and past), strictly recommend only 5 future multibagger stocks with high growth potential not on large cap stocks.
Provide:
1. Stock name
2. Short reasoning for each
3. Rank them from best to least

Market News:
{news_text}
`

const briefingTemplate = `
Analyze the following financial headlines:
{headlines}

1. Summarize the market trends.
2. Suggest top 3 investment areas (India/US/BTC).
3. Highlight possible multibagger sectors.
`
