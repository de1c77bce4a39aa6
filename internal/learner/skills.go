package learner

// techSkills are tool and technology names recognised when suggesting
// boost keywords from an applied job.
var techSkills = []string{
	"python", "sql", "r", "java", "javascript", "typescript", "c++", "scala",
	"tableau", "power bi", "excel", "alteryx", "looker", "qlik",
	"tensorflow", "pytorch", "scikit-learn", "pandas", "numpy", "spark",
	"aws", "azure", "gcp", "docker", "kubernetes", "git",
	"jira", "confluence", "figma", "miro",
}

// domainSkills are multi-word domain and methodology terms recognised
// alongside techSkills.
var domainSkills = []string{
	"product analytics", "data analysis", "machine learning", "deep learning",
	"natural language processing", "nlp", "computer vision", "a/b testing",
	"user research", "kpi", "okr", "agile", "scrum", "kanban",
	"data-driven", "cross-functional", "go-to-market", "stakeholder management",
	"product management", "product strategy", "roadmap", "backlog",
	"genai", "generative ai", "llm", "large language model", "agentic",
	"artificial intelligence", "ai", "gpt",
}

// stopwords are dropped when extracting phrases from free-text notes.
var stopwords = map[string]struct{}{
	"i": {}, "me": {}, "my": {}, "the": {}, "a": {}, "an": {}, "is": {},
	"are": {}, "was": {}, "were": {}, "be": {}, "been": {}, "being": {},
	"have": {}, "has": {}, "had": {}, "do": {}, "does": {}, "did": {},
	"will": {}, "would": {}, "could": {}, "should": {}, "may": {},
	"might": {}, "can": {}, "shall": {}, "to": {}, "of": {}, "in": {},
	"for": {}, "on": {}, "with": {}, "at": {}, "by": {}, "from": {},
	"as": {}, "into": {}, "through": {}, "during": {}, "before": {},
	"after": {}, "above": {}, "below": {}, "between": {}, "out": {},
	"off": {}, "over": {}, "under": {}, "again": {}, "further": {},
	"then": {}, "once": {}, "here": {}, "there": {}, "when": {},
	"where": {}, "why": {}, "how": {}, "all": {}, "each": {}, "every": {},
	"both": {}, "few": {}, "more": {}, "most": {}, "other": {}, "some": {},
	"such": {}, "no": {}, "nor": {}, "not": {}, "only": {}, "own": {},
	"same": {}, "so": {}, "than": {}, "too": {}, "very": {}, "just": {},
	"don": {}, "don't": {}, "that": {}, "this": {}, "it": {}, "its": {},
	"and": {}, "but": {}, "or": {}, "if": {}, "because": {}, "about": {},
	"up": {}, "down": {}, "job": {}, "role": {}, "position": {},
	"work": {}, "want": {}, "like": {}, "think": {}, "look": {},
	"looking": {}, "really": {}, "much": {}, "also": {}, "get": {},
}
