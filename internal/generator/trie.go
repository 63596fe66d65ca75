// Package generator fills crossword grids from a word list and writes
// clues for the filled entries, producing the JSONL records the admin
// bulk-upload endpoint ingests.
package generator

type trieNode struct {
	children map[byte]*trieNode
	count    int
	wordEnd  bool
}

// trie indexes the word list by prefix. Counts let a word be disabled
// temporarily while it is used in the grid, so the same answer never
// appears twice in one puzzle, and prefix queries prune dead branches
// during backtracking.
type trie struct {
	root *trieNode
}

func newTrie() *trie {
	return &trie{root: &trieNode{children: make(map[byte]*trieNode)}}
}

func (t *trie) add(word string) {
	cur := t.root
	for i := 0; i < len(word); i++ {
		ch := word[i]
		next, ok := cur.children[ch]
		if !ok {
			next = &trieNode{children: make(map[byte]*trieNode)}
			cur.children[ch] = next
		}
		cur.count++
		cur = next
	}
	cur.count++
	cur.wordEnd = true
}

// remove disables a word by decrementing counts along its path. The
// nodes stay allocated; add restores them.
func (t *trie) remove(word string) {
	cur := t.root
	for i := 0; i < len(word); i++ {
		next, ok := cur.children[word[i]]
		if !ok {
			return
		}
		cur.count--
		cur = next
	}
	cur.count--
}

// nextLetters returns the characters that keep the prefix extendable,
// or nil when the prefix leads nowhere.
func (t *trie) nextLetters(prefix string) map[byte]bool {
	cur := t.root
	for i := 0; i < len(prefix); i++ {
		next, ok := cur.children[prefix[i]]
		if !ok || next.count == 0 {
			return nil
		}
		cur = next
	}
	out := make(map[byte]bool)
	for ch, node := range cur.children {
		if node.count > 0 {
			out[ch] = true
		}
	}
	return out
}

// isWord reports whether word is a live, complete entry.
func (t *trie) isWord(word string) bool {
	cur := t.root
	for i := 0; i < len(word); i++ {
		next, ok := cur.children[word[i]]
		if !ok {
			return false
		}
		cur = next
	}
	return cur.wordEnd && cur.count > 0
}
