/*
Package checksumfile can be used to persist data to a file so that it is never
corrupted. Data is written to a temp file, read back and verified, and then
renamed over the destination, so a reader either sees the previous contents
or the new ones.
An example is:
    func main() {
    	fs := afero.NewOsFs()
    	data := []byte("Hello World!")
    	filename := "/var/lib/tsoracle/oracle-state" // directory in which file
    	// is stored should exist beforehand and be writable by the user,
    	// otherwise write will fail.
    	if err := checksumfile.Write(fs, filename, data); err != nil {
    		panic(err)
    	}
    	read, err := checksumfile.Read(fs, filename)
    	if err != nil {
    		panic(err)
    	}
    	fmt.Println(read)
    }
*/
package checksumfile
