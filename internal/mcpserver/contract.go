package mcpserver

const fence = "```"

// DialectGuide describes the markdown subset and front matter format the
// default renderer understands.
const DialectGuide = `# Folio Markdown Dialect

Articles are plain UTF-8 text files listed one per line in a section manifest
(e.g. ` + "`data/knowledge-list.txt`" + `). Lines starting with ` + "`#`" + ` in a manifest are comments.

## Front matter

An optional block at the very start of the file:

` + fence + `
---
题目: Article title
更新时间: 2026-01-14
分类: Category
标签: [tag-one, tag-two]
引言: One-line introduction
---
` + fence + `

- One ` + "`key: value`" + ` per line, split at the first colon.
- A value wrapped in matching quotes is unquoted.
- A value wrapped in ` + "`[...]`" + ` is a list; elements are comma separated and quotes are removed.
- English keys (title, updateTime, category, tags, intro) are accepted as well.
- Without a title the file name is used.

## Body syntax

| Markdown | HTML |
|---|---|
| ` + "`# H1`, `## H2`, `### H3`" + ` | h1, h2, h3 (h1 and h2 get ids heading-1-N / heading-2-N) |
| ` + "`**bold**`, `__bold__`" + ` | strong |
| ` + "`*em*`, `_em_`" + ` | em |
| ` + "`` `code` ``" + ` | code (content is not processed further) |
| three backticks on their own lines | pre/code block, content HTML-escaped |
| ` + "`[label](href)`" + ` | a |
| ` + "`![alt](src)`" + ` | img |
| ` + "`- item`, `* item`, `+ item`, `1. item`" + ` | li, consecutive items form one ul |

Other lines become paragraphs; consecutive lines are joined with a space and a
blank line starts a new paragraph. Raw HTML in prose is passed through unchanged.

Not supported: nested lists, tables, blockquotes, numbered (ol) lists, reference
links, headings deeper than ###.
`
