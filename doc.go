// Package moodletl translates Moodle course backups and question banks into
// bilingual {mlang} content.
//
// Text fragments are extracted from HTML and STACK CAS text embedded in the
// Moodle XML, unseen fragments are sent to a machine translation provider in
// batches, translations are cached, and every fragment is replaced in the
// document by its source and target language versions.
//
// Basic usage:
//
//	import (
//	    "context"
//	    "github.com/ZaguanLabs/moodletl"
//	    "github.com/ZaguanLabs/moodletl/cache"
//	    "github.com/ZaguanLabs/moodletl/provider"
//	)
//
//	func main() {
//	    store, err := cache.OpenJSONStore("translations.json")
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    p := provider.NewDeepLProvider(provider.DeepLConfig{
//	        AuthKey: os.Getenv("DEEPL_AUTH_KEY"),
//	    })
//
//	    t := moodletl.NewTranslator("FR", p,
//	        moodletl.WithSourceLang("EN-US"),
//	        moodletl.WithCache(store),
//	    )
//
//	    result, err := t.Translate(context.Background(), []string{"This is a <b>bold</b> test."})
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(result.TranslatedCount)
//	}
//
// Document level processing (file discovery, extraction and rewriting) lives
// in the moodle package.
package moodletl
