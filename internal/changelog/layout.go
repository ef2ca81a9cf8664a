package changelog

// sectionTemplate builds the node tree for one release section: a version
// heading, one block per non-empty group with enumerated commit lines, and
// a link-reference block when any pull-request references were extracted.
func sectionTemplate(dateLayout string) *Template {
	commitLine := []Node{
		Var{Path: "index"},
		Text(". "),
		Cond{Path: "commit.breaking", Then: []Node{
			Text("[**breaking**] "),
		}},
		Cond{Path: "commit.scope", Then: []Node{
			Text("**"),
			Var{Path: "commit.scope"},
			Text(":** "),
		}},
		Var{Path: "commit.description", Filters: []Filter{Capitalize, RewriteRefs}},
		Text("\n"),
	}

	groupBlock := []Node{
		Text("\n### "),
		Var{Path: "group.title"},
		Text("\n\n"),
		Loop{Path: "group.commits", Bind: "commit", Body: commitLine},
	}

	linkLine := []Node{
		Text("[#"),
		Var{Path: "link.number"},
		Text("]: "),
		Var{Path: "link.url"},
		Text("\n"),
	}

	return &Template{
		DateLayout: dateLayout,
		Nodes: []Node{
			Text("\n## ["),
			Var{Path: "release.version"},
			Text("]"),
			Cond{Path: "release.timestamp", Then: []Node{
				Text(" - "),
				Var{Path: "release.timestamp"},
			}},
			Text("\n"),
			Loop{Path: "release.groups", Bind: "group", Body: groupBlock},
			Cond{Path: "links", Then: []Node{
				Text("\n"),
				Loop{Path: "links", Bind: "link", Body: linkLine},
			}},
		},
	}
}
