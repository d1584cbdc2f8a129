package highlight

// Built-in languages. Names match the canonical names go-enry reports so
// that content-based detection lands on the same definitions.

func goLanguage() *Language {
	return NewLanguage("Go", ".go").
		MultilineRegion("/*", "*/", 0, TokenComment).
		MultilineRegion("`", "`", 0, TokenString).
		Region("//", "", 0, TokenComment).
		Region(`"`, `"`, '\\', TokenString).
		Region("'", "'", '\\', TokenString).
		Pattern(`\b0[xX][0-9a-fA-F_]+\b`, TokenNumber).
		Pattern(`\b\d[\d_]*\.?\d*(?:[eE][+-]?\d+)?\b`, TokenNumber).
		Keywords(TokenKeywordControl,
			"if", "else", "for", "range", "switch", "case", "default",
			"break", "continue", "return", "goto", "fallthrough", "select",
			"defer", "go").
		Keywords(TokenKeywordDeclaration,
			"func", "var", "const", "type", "struct", "interface", "map", "chan",
			"package", "import").
		Keywords(TokenConstantLanguage, "true", "false", "nil", "iota").
		Keywords(TokenTypeBuiltin,
			"int", "int8", "int16", "int32", "int64",
			"uint", "uint8", "uint16", "uint32", "uint64", "uintptr",
			"float32", "float64", "complex64", "complex128",
			"bool", "byte", "rune", "string", "error", "any").
		Keywords(TokenFunctionBuiltin,
			"make", "new", "len", "cap", "append", "copy", "delete",
			"close", "panic", "recover", "print", "println",
			"real", "imag", "complex", "min", "max", "clear").
		Pattern(`[A-Za-z_]\w*(?=\()`, TokenFunction)
}

func pythonLanguage() *Language {
	return NewLanguage("Python", ".py", ".pyw", ".pyi").
		MultilineRegion(`"""`, `"""`, '\\', TokenString).
		MultilineRegion(`'''`, `'''`, '\\', TokenString).
		Region("#", "", 0, TokenComment).
		Region(`"`, `"`, '\\', TokenString).
		Region("'", "'", '\\', TokenString).
		Pattern(`\b0[xX][0-9a-fA-F]+\b`, TokenNumber).
		Pattern(`\b\d+\.?\d*(?:[eE][+-]?\d+)?j?\b`, TokenNumber).
		Pattern(`@[\w.]+`, TokenMeta).
		Keywords(TokenKeywordControl,
			"if", "elif", "else", "for", "while", "break", "continue",
			"return", "try", "except", "finally", "raise", "with", "as",
			"match", "case", "yield", "pass").
		Keywords(TokenKeywordDeclaration,
			"def", "class", "lambda", "async", "await", "import", "from",
			"global", "nonlocal").
		Keywords(TokenKeyword, "assert", "del", "in", "is", "not", "and", "or").
		Keywords(TokenConstantLanguage, "True", "False", "None").
		Keywords(TokenFunctionBuiltin,
			"print", "len", "range", "enumerate", "zip", "map", "filter",
			"open", "isinstance", "getattr", "setattr", "iter", "next",
			"sorted", "sum", "min", "max", "abs", "super").
		Keywords(TokenTypeBuiltin,
			"int", "float", "str", "bool", "list", "dict", "set", "tuple",
			"bytes", "object", "type").
		Pattern(`[A-Za-z_]\w*(?=\()`, TokenFunction)
}

func javaScriptLanguage() *Language {
	return NewLanguage("JavaScript", ".js", ".jsx", ".mjs", ".cjs", ".ts", ".tsx").
		MultilineRegion("/*", "*/", 0, TokenComment).
		MultilineRegion("`", "`", '\\', TokenString).
		Region("//", "", 0, TokenComment).
		Region(`"`, `"`, '\\', TokenString).
		Region("'", "'", '\\', TokenString).
		Pattern(`\b0[xX][0-9a-fA-F]+\b`, TokenNumber).
		Pattern(`\b\d+\.?\d*(?:[eE][+-]?\d+)?n?\b`, TokenNumber).
		Pattern(`@\w+`, TokenMeta).
		Keywords(TokenKeywordControl,
			"if", "else", "for", "while", "do", "switch", "case", "default",
			"break", "continue", "return", "throw", "try", "catch", "finally",
			"yield").
		Keywords(TokenKeywordDeclaration,
			"function", "var", "let", "const", "class", "extends", "async",
			"await", "type", "interface", "enum", "namespace", "import",
			"export", "from").
		Keywords(TokenKeyword,
			"new", "delete", "typeof", "instanceof", "in", "of", "this",
			"super", "static", "public", "private", "protected", "readonly").
		Keywords(TokenConstantLanguage, "true", "false", "null", "undefined", "NaN", "Infinity").
		Pattern(`[A-Za-z_$][\w$]*(?=\()`, TokenFunction)
}

func rustLanguage() *Language {
	return NewLanguage("Rust", ".rs").
		MultilineRegion("/*", "*/", 0, TokenComment).
		Region("//", "", 0, TokenComment).
		Pattern(`r#*"[^"]*"#*`, TokenString).
		Region(`"`, `"`, '\\', TokenString).
		Pattern(`'(?:[^'\\]|\\.)'`, TokenString).
		Pattern(`#!?\[.*?\]`, TokenMeta).
		Pattern(`\b0[xX][0-9a-fA-F_]+\b`, TokenNumber).
		Pattern(`\b\d[\d_]*\.?[\d_]*(?:[eE][+-]?[\d_]+)?(?:f32|f64|i\d+|u\d+|isize|usize)?\b`, TokenNumber).
		Keywords(TokenKeywordControl,
			"if", "else", "match", "for", "while", "loop", "break", "continue",
			"return", "in").
		Keywords(TokenKeywordDeclaration,
			"fn", "let", "mut", "const", "static", "struct", "enum", "trait",
			"impl", "type", "mod", "use", "pub", "where").
		Keywords(TokenKeyword,
			"crate", "super", "self", "Self", "as", "async", "await", "dyn",
			"move", "ref", "unsafe", "extern").
		Keywords(TokenConstantLanguage, "true", "false", "None", "Some", "Ok", "Err").
		Keywords(TokenTypeBuiltin,
			"i8", "i16", "i32", "i64", "i128", "isize",
			"u8", "u16", "u32", "u64", "u128", "usize",
			"f32", "f64", "bool", "char", "str", "String",
			"Vec", "Box", "Option", "Result").
		Pattern(`[A-Za-z_]\w*!`, TokenFunctionBuiltin).
		Pattern(`[A-Za-z_]\w*(?=\()`, TokenFunction)
}

func cLanguage() *Language {
	return NewLanguage("C", ".c", ".h").
		MultilineRegion("/*", "*/", 0, TokenComment).
		Region("//", "", 0, TokenComment).
		Pattern(`^\s*#\s*\w+`, TokenMeta).
		Region(`"`, `"`, '\\', TokenString).
		Region("'", "'", '\\', TokenString).
		Pattern(`\b0[xX][0-9a-fA-F]+[uUlL]*\b`, TokenNumber).
		Pattern(`\b\d+\.?\d*(?:[eE][+-]?\d+)?[fFuUlL]*\b`, TokenNumber).
		Keywords(TokenKeywordControl,
			"if", "else", "for", "while", "do", "switch", "case", "default",
			"break", "continue", "return", "goto").
		Keywords(TokenKeywordDeclaration,
			"struct", "union", "enum", "typedef", "static", "extern", "const",
			"volatile", "inline", "register", "sizeof").
		Keywords(TokenTypeBuiltin,
			"void", "char", "short", "int", "long", "float", "double",
			"signed", "unsigned", "size_t", "bool").
		Keywords(TokenConstantLanguage, "NULL", "true", "false").
		Pattern(`[A-Za-z_]\w*(?=\()`, TokenFunction)
}

func luaLanguage() *Language {
	return NewLanguage("Lua", ".lua").
		MultilineRegion("--[[", "]]", 0, TokenComment).
		Region("--", "", 0, TokenComment).
		MultilineRegion("[[", "]]", 0, TokenString).
		Region(`"`, `"`, '\\', TokenString).
		Region("'", "'", '\\', TokenString).
		Pattern(`\b0[xX][0-9a-fA-F]+\b`, TokenNumber).
		Pattern(`\b\d+\.?\d*(?:[eE][+-]?\d+)?\b`, TokenNumber).
		Keywords(TokenKeywordControl,
			"if", "then", "elseif", "else", "end", "for", "while", "do",
			"repeat", "until", "break", "return", "goto", "in").
		Keywords(TokenKeywordDeclaration, "function", "local").
		Keywords(TokenKeyword, "and", "or", "not").
		Keywords(TokenConstantLanguage, "true", "false", "nil").
		Pattern(`[A-Za-z_][\w.:]*(?=\()`, TokenFunction)
}

func tomlLanguage() *Language {
	return NewLanguage("TOML", ".toml").
		Region("#", "", 0, TokenComment).
		Pattern(`^\s*\[\[?[^\]]*\]\]?`, TokenTypeName).
		MultilineRegion(`"""`, `"""`, '\\', TokenString).
		Region(`"`, `"`, '\\', TokenString).
		Region("'", "'", 0, TokenString).
		Pattern(`^\s*[A-Za-z0-9_.-]+(?=\s*=)`, TokenKeyword).
		Pattern(`\b\d[\d_]*\.?[\d_]*(?:[eE][+-]?\d+)?\b`, TokenNumber).
		Keywords(TokenConstantLanguage, "true", "false")
}

func markdownLanguage() *Language {
	return NewLanguage("Markdown", ".md", ".markdown").
		MultilineRegion("```", "```", 0, TokenMarkupCode).
		Pattern(`^#{1,6}\s.*$`, TokenMarkupHeading).
		Pattern(`^>\s.*$`, TokenMarkupQuote).
		Pattern(`^\s*(?:[-*+]|\d+\.)\s`, TokenMarkupList).
		Pattern(`\*\*[^*]+\*\*|__[^_]+__`, TokenMarkupBold).
		Pattern(`\*[^*\s][^*]*\*|_[^_\s][^_]*_`, TokenMarkupItalic).
		Region("`", "`", 0, TokenMarkupCode).
		Pattern(`\[[^\]]+\]\([^)]+\)`, TokenMarkupLink)
}

func shellLanguage() *Language {
	return NewLanguage("Shell", ".sh", ".bash", ".zsh").
		Region("#", "", 0, TokenComment).
		Region(`"`, `"`, '\\', TokenString).
		Region("'", "'", 0, TokenString).
		Pattern(`\$\{[^}]*\}|\$\w+`, TokenConstant).
		Pattern(`\b\d+\b`, TokenNumber).
		Keywords(TokenKeywordControl,
			"if", "then", "else", "elif", "fi", "for", "while", "until", "do",
			"done", "case", "esac", "in", "return", "exit").
		Keywords(TokenKeywordDeclaration, "function", "local", "export", "readonly").
		Keywords(TokenFunctionBuiltin, "echo", "printf", "cd", "test", "set", "unset", "source")
}

func builtinLanguages() []*Language {
	return []*Language{
		goLanguage(),
		pythonLanguage(),
		javaScriptLanguage(),
		rustLanguage(),
		cLanguage(),
		luaLanguage(),
		tomlLanguage(),
		markdownLanguage(),
		shellLanguage(),
	}
}
